package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/format"
	"github.com/Urlyss/comic-database-mcp/internal/registry"
	"github.com/Urlyss/comic-database-mcp/internal/schema"
)

// Group names. Each resource type owns one list and one get tool.
const (
	GroupCharacters = "characters"
	GroupIssues     = "issues"
	GroupPublishers = "publishers"
	GroupStoryArcs  = "story_arcs"
	GroupVolumes    = "volumes"
	GroupSearch     = "search"
)

// Register adds every Comic Vine tool to reg.
func Register(reg *registry.Registry, h *Handler) error {
	reg.AddGroup(GroupCharacters, "Comic book characters")
	reg.AddGroup(GroupIssues, "Individual comic book issues")
	reg.AddGroup(GroupPublishers, "Comic book publishers")
	reg.AddGroup(GroupStoryArcs, "Story arcs spanning several issues")
	reg.AddGroup(GroupVolumes, "Volumes (series) of issues")
	reg.AddGroup(GroupSearch, "Search across all resource types")

	var errs []error
	add := func(t registry.Tool) {
		if err := reg.Add(t); err != nil {
			errs = append(errs, err)
		}
	}

	add(listTool(h, "get-characters", GroupCharacters,
		"Get a list of comic book characters with optional filtering",
		schema.CharacterFields, h.api.ListCharacters, format.Characters))
	add(getTool(h, "get-character", GroupCharacters,
		"Get detailed information about a specific comic book character",
		schema.CharacterFields, h.api.GetCharacter, format.Character))

	add(listTool(h, "get-issues", GroupIssues,
		"Get a list of comic book issues with optional filtering",
		schema.IssueFields, h.api.ListIssues, format.Issues))
	add(getTool(h, "get-issue", GroupIssues,
		"Get detailed information about a specific comic book issue",
		schema.IssueFields, h.api.GetIssue, format.Issue))

	add(listTool(h, "get-publishers", GroupPublishers,
		"Get a list of comic book publishers with optional filtering",
		schema.PublisherFields, h.api.ListPublishers, format.Publishers))
	add(getTool(h, "get-publisher", GroupPublishers,
		"Get detailed information about a specific comic book publisher",
		schema.PublisherFields, h.api.GetPublisher, format.Publisher))

	add(listTool(h, "get-story-arcs", GroupStoryArcs,
		"Get a list of comic book story arcs with optional filtering",
		schema.StoryArcFields, h.api.ListStoryArcs, format.StoryArcs))
	add(getTool(h, "get-story-arc", GroupStoryArcs,
		"Get detailed information about a specific comic book story arc",
		schema.StoryArcFields, h.api.GetStoryArc, format.StoryArc))

	add(listTool(h, "get-volumes", GroupVolumes,
		"Get a list of comic book volumes with optional filtering",
		schema.VolumeFields, h.api.ListVolumes, format.Volumes))
	add(getTool(h, "get-volume", GroupVolumes,
		"Get detailed information about a specific comic book volume",
		schema.VolumeFields, h.api.GetVolume, format.Volume))

	add(searchTool(h))

	return errors.Join(errs...)
}

func listTool[T any](
	h *Handler, name, group, description string, fields []string,
	call func(context.Context, comicvine.Params) (*comicvine.Page[T], error),
	render func(*comicvine.Page[T]) string,
) registry.Tool {
	in := schema.List(name, fields)
	return registry.Tool{
		Name:        name,
		Description: description,
		Group:       group,
		Input:       in,
		Handle: h.wrap(name, in, func(ctx context.Context, raw json.RawMessage) (string, error) {
			var a listArgs
			if err := decodeArgs(raw, &a); err != nil {
				return "", err
			}
			page, err := call(ctx, a.params())
			if err != nil {
				return "", err
			}
			return render(page), nil
		}),
	}
}

func getTool[T any](
	h *Handler, name, group, description string, fields []string,
	call func(context.Context, int, comicvine.Params) (*T, error),
	render func(*T) string,
) registry.Tool {
	in := schema.Get(name, fields)
	return registry.Tool{
		Name:        name,
		Description: description,
		Group:       group,
		Input:       in,
		Handle: h.wrap(name, in, func(ctx context.Context, raw json.RawMessage) (string, error) {
			var a getArgs
			if err := decodeArgs(raw, &a); err != nil {
				return "", err
			}
			v, err := call(ctx, int(a.ID), a.params())
			if err != nil {
				return "", err
			}
			return render(v), nil
		}),
	}
}

func searchTool(h *Handler) registry.Tool {
	const name = "search"
	in := schema.Search(name)
	return registry.Tool{
		Name:        name,
		Description: "Search for comic book resources across all types",
		Group:       GroupSearch,
		Input:       in,
		Handle: h.wrap(name, in, func(ctx context.Context, raw json.RawMessage) (string, error) {
			var a searchArgs
			if err := decodeArgs(raw, &a); err != nil {
				return "", err
			}
			page, err := h.api.Search(ctx, a.Query, a.params())
			if err != nil {
				return "", err
			}
			return format.Search(page), nil
		}),
	}
}
