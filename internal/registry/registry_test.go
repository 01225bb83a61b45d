package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urlyss/comic-database-mcp/internal/schema"
)

func echoTool(name, group string) Tool {
	return Tool{
		Name:  name,
		Group: group,
		Input: schema.List(name, []string{"id", "name"}),
		Handle: func(_ context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: name + ":" + string(args)}}}, nil
		},
	}
}

func TestAddKeepsOrderAndGroups(t *testing.T) {
	r := New()
	r.AddGroup("volumes", "Volumes")
	r.AddGroup("characters", "Characters")
	r.AddGroup("characters", "ignored duplicate")

	require.NoError(t, r.Add(echoTool("get-volumes", "volumes")))
	require.NoError(t, r.Add(echoTool("get-characters", "characters")))
	require.NoError(t, r.Add(echoTool("get-volume", "volumes")))

	var names []string
	for _, tool := range r.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"get-volumes", "get-characters", "get-volume"}, names)

	groups := r.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Characters", groups[1].Description)
	assert.Equal(t, []string{"get-volumes", "get-volume"}, groups[0].Tools)

	_, ok := r.Get("get-volume")
	assert.True(t, ok)
	_, ok = r.Get("get-issue")
	assert.False(t, ok)
}

func TestAddRejects(t *testing.T) {
	r := New()
	r.AddGroup("volumes", "Volumes")
	require.NoError(t, r.Add(echoTool("get-volumes", "volumes")))

	assert.ErrorContains(t, r.Add(echoTool("get-volumes", "volumes")), "already registered")
	assert.ErrorContains(t, r.Add(echoTool("get-issues", "issues")), "unknown group")
	assert.ErrorContains(t, r.Add(Tool{Name: "bare", Group: "volumes"}), "incomplete")
	assert.Equal(t, 1, r.ToolCount())
}

func TestInstallIsIdempotent(t *testing.T) {
	r := New()
	r.AddGroup("volumes", "Volumes")
	require.NoError(t, r.Add(echoTool("get-volumes", "volumes")))

	s := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	r.Install(s)
	r.Install(s)

	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()
	ss, err := s.Connect(ctx, st, nil)
	require.NoError(t, err)
	defer ss.Close()

	c := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.0.1"}, nil)
	cs, err := c.Connect(ctx, ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "get-volumes", list.Tools[0].Name)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "get-volumes", Arguments: map[string]any{"limit": 2}})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, `get-volumes:{"limit":2}`, res.Content[0].(*mcp.TextContent).Text)
}

func TestInstructionsListGroups(t *testing.T) {
	r := New()
	r.AddGroup("volumes", "Volumes of issues")
	require.NoError(t, r.Add(echoTool("get-volumes", "volumes")))
	require.NoError(t, r.Add(echoTool("get-volume", "volumes")))

	got := r.Instructions()
	assert.Contains(t, got, "- volumes: Volumes of issues (get-volumes, get-volume)\n")
	assert.Contains(t, got, "Total available tools: 2")
}
