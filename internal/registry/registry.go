package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Urlyss/comic-database-mcp/internal/schema"
)

// HandlerFunc executes a tool with already validated raw arguments.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error)

// Tool binds a name to its input contract and handler.
type Tool struct {
	Name        string
	Description string
	Group       string
	Input       *schema.Input
	Handle      HandlerFunc
}

// Group represents a set of related tools (one Comic Vine resource type).
type Group struct {
	Name        string
	Description string
	Tools       []string
}

// Registry keeps tools in registration order.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	groups []Group
}

func New() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// AddGroup declares a group; tools referring to an undeclared group are rejected.
func (r *Registry) AddGroup(name, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.Name == name {
			return
		}
	}
	r.groups = append(r.groups, Group{Name: name, Description: description})
}

func (r *Registry) Add(t Tool) error {
	if t.Name == "" || t.Input == nil || t.Handle == nil {
		return fmt.Errorf("registry: tool %q is incomplete", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("registry: tool %q already registered", t.Name)
	}
	gi := -1
	for i, g := range r.groups {
		if g.Name == t.Group {
			gi = i
			break
		}
	}
	if gi < 0 {
		return fmt.Errorf("registry: tool %q refers to unknown group %q", t.Name, t.Group)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	r.groups[gi].Tools = append(r.groups[gi].Tools, t.Name)
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Groups() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		g.Tools = append([]string(nil), g.Tools...)
		out[i] = g
	}
	return out
}

func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Install binds every tool to s. Installing again replaces the tools, so
// calling it twice on the same server is harmless.
func (r *Registry) Install(s *mcp.Server) {
	for _, t := range r.Tools() {
		h := t.Handle
		s.AddTool(&mcp.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Input.Doc,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			return h(ctx, args)
		})
	}
}

// Instructions describes the groups for the MCP initialize response.
func (r *Registry) Instructions() string {
	var sb strings.Builder
	sb.WriteString("Comic Vine database tools. Results are returned as Markdown.\n\n")
	sb.WriteString("Every list tool accepts field_list, limit, offset, sort and filter; ")
	sb.WriteString("every get tool takes an id plus field_list and filter.\n\n")
	sb.WriteString("Available groups:\n")
	for _, g := range r.Groups() {
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", g.Name, g.Description, strings.Join(g.Tools, ", "))
	}
	fmt.Fprintf(&sb, "\nTotal available tools: %d\n", r.ToolCount())
	return sb.String()
}
