package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/tools"
)

// fakeComicVine answers like the remote API for a handful of paths and
// counts requests.
type fakeComicVine struct {
	srv  *httptest.Server
	hits atomic.Int32
	keys chan string
}

func newFakeComicVine(t *testing.T) *fakeComicVine {
	t.Helper()
	f := &fakeComicVine{keys: make(chan string, 16)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		select {
		case f.keys <- r.URL.Query().Get("api_key"):
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/character/4005-1699":
			_, _ = io.WriteString(w, `{"status_code":1,"error":"OK","results":{
				"id":1699,"name":"Batman","real_name":"Bruce Wayne","gender":1,
				"powers":[{"id":1,"name":"Flight"}]}}`)
		case "/search":
			_, _ = io.WriteString(w, `{"status_code":1,"error":"OK","number_of_total_results":2,"limit":10,"offset":0,"results":[
				{"id":1702,"name":"Joker","resource_type":"character"},
				{"id":1703,"name":"Joker Jr","resource_type":"character"}]}`)
		case "/issues":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"status_code":500,"error":"Database unavailable","results":[]}`)
		default:
			_, _ = io.WriteString(w, `{"status_code":101,"error":"Object Not Found","results":[]}`)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeComicVine) factory() ClientFactory {
	return func(key string) (tools.API, error) {
		return comicvine.NewClient(key, comicvine.WithBaseURL(f.srv.URL), comicvine.WithHTTPClient(f.srv.Client()))
	}
}

func connect(t *testing.T, s *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()
	ss, err := s.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func newServer(t *testing.T, f *fakeComicVine) *mcp.Server {
	t.Helper()
	api, err := f.factory()("test-key")
	require.NoError(t, err)
	s, err := NewMCPServer(api, nil)
	require.NoError(t, err)
	return s
}

func TestNewMCPServerRequiresClient(t *testing.T) {
	_, err := NewMCPServer(nil, nil)
	require.ErrorIs(t, err, comicvine.ErrMissingAPIKey)
}

func TestServerListsElevenTools(t *testing.T) {
	cs := connect(t, newServer(t, newFakeComicVine(t)))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 11)

	init := cs.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, Name, init.ServerInfo.Name)
	assert.Equal(t, Version, init.ServerInfo.Version)
	assert.Contains(t, init.Instructions, "Total available tools: 11")
}

func TestGetCharacterEndToEnd(t *testing.T) {
	f := newFakeComicVine(t)
	cs := connect(t, newServer(t, f))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get-character",
		Arguments: map[string]any{"id": 1699},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	md := resultText(t, res)
	assert.Contains(t, md, "# Character: Batman (ID: 1699)")
	assert.Contains(t, md, "**Real Name:** Bruce Wayne")
	assert.Contains(t, md, "**Gender:** Male")
	assert.Contains(t, md, "## Powers\n- Flight (ID: 1)")
	assert.Equal(t, "test-key", <-f.keys)
}

func TestSearchEndToEnd(t *testing.T) {
	cs := connect(t, newServer(t, newFakeComicVine(t)))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "search",
		Arguments: map[string]any{"query": "joker", "resources": []string{"character"}},
	})
	require.NoError(t, err)
	md := resultText(t, res)
	assert.Equal(t, 1, strings.Count(md, "\n## "))
	assert.Contains(t, md, "## Character (2 results)")
}

func TestRemoteFailureEndToEnd(t *testing.T) {
	cs := connect(t, newServer(t, newFakeComicVine(t)))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "get-issues", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Equal(t, "Error: Comic Vine API Error: Database unavailable", resultText(t, res))

	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "get-volume", Arguments: map[string]any{"id": 1}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Object Not Found")
}

func TestInvalidArgumentsNeverReachRemote(t *testing.T) {
	f := newFakeComicVine(t)
	cs := connect(t, newServer(t, f))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get-characters",
		Arguments: map[string]any{"field_list": []string{"realname"}},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), `did you mean "real_name"`)
	assert.Zero(t, f.hits.Load())
}

func TestFieldResources(t *testing.T) {
	cs := connect(t, newServer(t, newFakeComicVine(t)))
	ctx := context.Background()

	list, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list.Resources, 6)

	res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "comicvine://fields/character"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "- `real_name`\n")

	_, err = cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "comicvine://fields/planet"})
	require.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newServer(t, newFakeComicVine(t))
	ctx, cancel := context.WithCancel(context.Background())
	st, ct := mcp.NewInMemoryTransports()

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, s, st) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}
