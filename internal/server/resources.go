package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Urlyss/comic-database-mcp/internal/schema"
)

const fieldsURIPrefix = "comicvine://fields/"

type fieldReference struct {
	name   string
	title  string
	tools  string
	fields []string
}

var fieldReferences = []fieldReference{
	{"character", "Character", "get-characters and get-character", schema.CharacterFields},
	{"issue", "Issue", "get-issues and get-issue", schema.IssueFields},
	{"publisher", "Publisher", "get-publishers and get-publisher", schema.PublisherFields},
	{"story_arc", "Story arc", "get-story-arcs and get-story-arc", schema.StoryArcFields},
	{"volume", "Volume", "get-volumes and get-volume", schema.VolumeFields},
}

func addFieldResources(s *mcp.Server) {
	for _, ref := range fieldReferences {
		s.AddResource(&mcp.Resource{
			URI:         fieldsURIPrefix + ref.name,
			Name:        ref.name + "-fields",
			Title:       ref.title + " fields",
			Description: "Valid field_list entries for " + ref.tools,
			MIMEType:    "text/markdown",
		}, readFieldResource)
	}
	s.AddResource(&mcp.Resource{
		URI:         fieldsURIPrefix + "search",
		Name:        "search-resources",
		Title:       "Search resource types",
		Description: "Valid resources entries for search",
		MIMEType:    "text/markdown",
	}, readFieldResource)
}

func readFieldResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	body, ok := fieldResourceText(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/markdown", Text: body}},
	}, nil
}

func fieldResourceText(uri string) (string, bool) {
	name, ok := strings.CutPrefix(uri, fieldsURIPrefix)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	if name == "search" {
		sb.WriteString("# Search resource types\n\nValid `resources` entries for search:\n\n")
		writeBullets(&sb, schema.SearchResources)
		return sb.String(), true
	}
	for _, ref := range fieldReferences {
		if ref.name != name {
			continue
		}
		fmt.Fprintf(&sb, "# %s fields\n\nValid `field_list` entries for %s:\n\n", ref.title, ref.tools)
		writeBullets(&sb, ref.fields)
		return sb.String(), true
	}
	return "", false
}

func writeBullets(sb *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(sb, "- `%s`\n", it)
	}
}
