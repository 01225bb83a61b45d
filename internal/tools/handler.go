// Package tools binds the Comic Vine client and the Markdown formatters to
// named MCP tools.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/registry"
	"github.com/Urlyss/comic-database-mcp/internal/schema"
)

// API is the subset of *comicvine.Client the tools call.
type API interface {
	ListCharacters(ctx context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Character], error)
	GetCharacter(ctx context.Context, id int, p comicvine.Params) (*comicvine.Character, error)
	ListIssues(ctx context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Issue], error)
	GetIssue(ctx context.Context, id int, p comicvine.Params) (*comicvine.Issue, error)
	ListPublishers(ctx context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Publisher], error)
	GetPublisher(ctx context.Context, id int, p comicvine.Params) (*comicvine.Publisher, error)
	ListStoryArcs(ctx context.Context, p comicvine.Params) (*comicvine.Page[comicvine.StoryArc], error)
	GetStoryArc(ctx context.Context, id int, p comicvine.Params) (*comicvine.StoryArc, error)
	ListVolumes(ctx context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Volume], error)
	GetVolume(ctx context.Context, id int, p comicvine.Params) (*comicvine.Volume, error)
	Search(ctx context.Context, query string, p comicvine.SearchParams) (*comicvine.SearchPage, error)
}

var _ API = (*comicvine.Client)(nil)

// Handler executes tool calls against one API client.
type Handler struct {
	api    API
	logger *slog.Logger
}

// NewHandler creates a new tool handler. A nil logger discards output.
func NewHandler(api API, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{api: api, logger: logger}
}

// runFunc produces the Markdown body of a tool call from validated arguments.
type runFunc func(ctx context.Context, args json.RawMessage) (string, error)

// wrap validates arguments, runs the call and converts any error into an
// error result. Protocol-level errors are never returned.
func (h *Handler) wrap(name string, in *schema.Input, run runFunc) registry.HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
		log := h.logger.With("tool", name, "call_id", uuid.NewString())
		start := time.Now()

		if err := in.Validate(args); err != nil {
			log.Debug("tool arguments rejected", "error", err)
			return errorResult(err.Error()), nil
		}
		if t := bytes.TrimSpace(args); len(t) == 0 || bytes.Equal(t, []byte("null")) {
			args = json.RawMessage("{}")
		}

		text, err := run(ctx, args)
		if err != nil {
			log.Warn("tool call failed", "duration", time.Since(start), "error", err)
			return errorResult(err.Error()), nil
		}
		log.Debug("tool call completed", "duration", time.Since(start), "bytes", len(text))
		return textResult(text), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}}, IsError: true}
}
