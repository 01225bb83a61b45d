package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/registry"
)

// fakeAPI records the last call and answers from its fields.
type fakeAPI struct {
	calls     int
	lastID    int
	lastQuery string
	params    comicvine.Params
	search    comicvine.SearchParams
	err       error

	character *comicvine.Character
	arcs      *comicvine.Page[comicvine.StoryArc]
	hits      []comicvine.SearchResult
}

func (f *fakeAPI) record(id int, p comicvine.Params) error {
	f.calls++
	f.lastID = id
	f.params = p
	return f.err
}

func (f *fakeAPI) ListCharacters(_ context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Character], error) {
	if err := f.record(0, p); err != nil {
		return nil, err
	}
	return &comicvine.Page[comicvine.Character]{}, nil
}

func (f *fakeAPI) GetCharacter(_ context.Context, id int, p comicvine.Params) (*comicvine.Character, error) {
	if err := f.record(id, p); err != nil {
		return nil, err
	}
	return f.character, nil
}

func (f *fakeAPI) ListIssues(_ context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Issue], error) {
	return &comicvine.Page[comicvine.Issue]{}, f.record(0, p)
}

func (f *fakeAPI) GetIssue(_ context.Context, id int, p comicvine.Params) (*comicvine.Issue, error) {
	return &comicvine.Issue{}, f.record(id, p)
}

func (f *fakeAPI) ListPublishers(_ context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Publisher], error) {
	return &comicvine.Page[comicvine.Publisher]{}, f.record(0, p)
}

func (f *fakeAPI) GetPublisher(_ context.Context, id int, p comicvine.Params) (*comicvine.Publisher, error) {
	return &comicvine.Publisher{}, f.record(id, p)
}

func (f *fakeAPI) ListStoryArcs(_ context.Context, p comicvine.Params) (*comicvine.Page[comicvine.StoryArc], error) {
	if err := f.record(0, p); err != nil {
		return nil, err
	}
	return f.arcs, nil
}

func (f *fakeAPI) GetStoryArc(_ context.Context, id int, p comicvine.Params) (*comicvine.StoryArc, error) {
	return &comicvine.StoryArc{}, f.record(id, p)
}

func (f *fakeAPI) ListVolumes(_ context.Context, p comicvine.Params) (*comicvine.Page[comicvine.Volume], error) {
	return &comicvine.Page[comicvine.Volume]{}, f.record(0, p)
}

func (f *fakeAPI) GetVolume(_ context.Context, id int, p comicvine.Params) (*comicvine.Volume, error) {
	return &comicvine.Volume{}, f.record(id, p)
}

func (f *fakeAPI) Search(_ context.Context, query string, p comicvine.SearchParams) (*comicvine.SearchPage, error) {
	f.calls++
	f.lastQuery = query
	f.search = p
	if f.err != nil {
		return nil, f.err
	}
	page := &comicvine.SearchPage{Query: query, Resources: p.Resources}
	page.Results = f.hits
	page.NumberOfTotalResults = len(f.hits)
	return page, nil
}

func newRegistry(t *testing.T, api API) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, Register(reg, NewHandler(api, nil)))
	return reg
}

func call(t *testing.T, reg *registry.Registry, name, args string) *mcp.CallToolResult {
	t.Helper()
	tool, ok := reg.Get(name)
	require.True(t, ok, "tool %s not registered", name)
	res, err := tool.Handle(context.Background(), json.RawMessage(args))
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestRegisterAllTools(t *testing.T) {
	reg := newRegistry(t, &fakeAPI{})

	var names []string
	for _, tool := range reg.Tools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"get-characters", "get-character",
		"get-issues", "get-issue",
		"get-publishers", "get-publisher",
		"get-story-arcs", "get-story-arc",
		"get-volumes", "get-volume",
		"search",
	}, names)

	groups := reg.Groups()
	require.Len(t, groups, 6)
	assert.Equal(t, GroupSearch, groups[5].Name)
	assert.Equal(t, []string{"search"}, groups[5].Tools)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := newRegistry(t, &fakeAPI{})
	err := Register(reg, NewHandler(&fakeAPI{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 11, reg.ToolCount())
}

func TestGetCharacterRendersMarkdown(t *testing.T) {
	api := &fakeAPI{character: &comicvine.Character{
		Entity:   comicvine.Entity{ID: 1699, Name: "Batman"},
		RealName: "Bruce Wayne",
		Gender:   comicvine.GenderMale,
		Powers:   []comicvine.Ref{{ID: 1, Name: "Flight"}},
	}}
	reg := newRegistry(t, api)

	res := call(t, reg, "get-character", `{"id":1699,"field_list":["name","real_name"],"filter":{"gender":"1"}}`)
	require.False(t, res.IsError, text(t, res))
	md := text(t, res)
	assert.Contains(t, md, "# Character: Batman (ID: 1699)")
	assert.Contains(t, md, "**Real Name:** Bruce Wayne")
	assert.Contains(t, md, "**Gender:** Male")
	assert.Contains(t, md, "## Powers\n- Flight (ID: 1)")

	assert.Equal(t, 1699, api.lastID)
	assert.Equal(t, []string{"name", "real_name"}, api.params.FieldList)
	assert.Equal(t, "gender:1", api.params.Filter.Encode())
	assert.Nil(t, api.params.Limit)
}

func TestListToolPassesPagination(t *testing.T) {
	api := &fakeAPI{arcs: &comicvine.Page[comicvine.StoryArc]{}}
	reg := newRegistry(t, api)

	res := call(t, reg, "get-story-arcs", `{"limit":5,"offset":10,"sort":"name:asc","filter":"name:Knightfall"}`)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "# Comic Book Story Arcs")

	require.NotNil(t, api.params.Limit)
	require.NotNil(t, api.params.Offset)
	assert.Equal(t, 5, *api.params.Limit)
	assert.Equal(t, 10, *api.params.Offset)
	assert.Equal(t, "name:asc", api.params.Sort)
	assert.Equal(t, "name:Knightfall", api.params.Filter.Encode())
}

func TestListToolAcceptsNoArguments(t *testing.T) {
	api := &fakeAPI{}
	reg := newRegistry(t, api)
	res := call(t, reg, "get-volumes", "")
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, 1, api.calls)
}

func TestIntegerArgumentsAcceptTrailingZero(t *testing.T) {
	api := &fakeAPI{character: &comicvine.Character{Entity: comicvine.Entity{ID: 1699, Name: "Batman"}}}
	reg := newRegistry(t, api)

	res := call(t, reg, "get-character", `{"id":1699.0}`)
	require.False(t, res.IsError, text(t, res))
	assert.Equal(t, 1699, api.lastID)

	res = call(t, reg, "get-volumes", `{"limit":5.0,"offset":0.0}`)
	require.False(t, res.IsError, text(t, res))
	require.NotNil(t, api.params.Limit)
	require.NotNil(t, api.params.Offset)
	assert.Equal(t, 5, *api.params.Limit)
	assert.Equal(t, 0, *api.params.Offset)

	res = call(t, reg, "search", `{"query":"joker","limit":2.0}`)
	require.False(t, res.IsError, text(t, res))
	require.NotNil(t, api.search.Limit)
	assert.Equal(t, 2, *api.search.Limit)
}

func TestWholeNumberRejectsFractions(t *testing.T) {
	var n wholeNumber
	require.NoError(t, json.Unmarshal([]byte(`12.0`), &n))
	assert.Equal(t, wholeNumber(12), n)
	assert.ErrorContains(t, json.Unmarshal([]byte(`1.5`), &n), "not a whole number")
	assert.Error(t, json.Unmarshal([]byte(`"7"`), &n))
	assert.Nil(t, (*wholeNumber)(nil).ptr())
}

func TestValidationErrorSkipsRemoteCall(t *testing.T) {
	api := &fakeAPI{}
	reg := newRegistry(t, api)

	cases := []struct {
		tool string
		args string
		want string
	}{
		{"get-characters", `{"field_list":["realname"]}`, `did you mean "real_name"`},
		{"get-character", `{}`, "invalid arguments for get-character"},
		{"get-issue", `{"id":0}`, "invalid arguments for get-issue"},
		{"get-issue", `{"id":1,"limit":3}`, "invalid arguments for get-issue"},
		{"get-issue", `{"id":1.5}`, "/id"},
		{"get-publishers", `{"limit":"ten"}`, "/limit"},
		{"search", `{"query":"x","resources":["planet"]}`, "/resources/0"},
		{"search", `{"query":"x","filter":"name:x"}`, "invalid arguments for search"},
	}
	for _, tc := range cases {
		t.Run(tc.tool+" "+tc.args, func(t *testing.T) {
			res := call(t, reg, tc.tool, tc.args)
			require.True(t, res.IsError)
			msg := text(t, res)
			assert.Contains(t, msg, "Error: ")
			assert.Contains(t, msg, tc.want)
		})
	}
	assert.Zero(t, api.calls)
}

func TestRemoteErrorBecomesErrorResult(t *testing.T) {
	api := &fakeAPI{err: &comicvine.APIError{StatusCode: 500, Message: "Internal Server Error"}}
	reg := newRegistry(t, api)

	res := call(t, reg, "get-issues", `{}`)
	require.True(t, res.IsError)
	assert.Equal(t, "Error: Comic Vine API Error: Internal Server Error", text(t, res))
}

func TestNotFoundBecomesErrorResult(t *testing.T) {
	api := &fakeAPI{err: fmt.Errorf("/character/4005-99999999: %w", comicvine.ErrNotFound)}
	reg := newRegistry(t, api)

	res := call(t, reg, "get-character", `{"id":99999999}`)
	require.True(t, res.IsError)
	assert.Contains(t, text(t, res), comicvine.ErrNotFound.Error())
}

func TestSearchTool(t *testing.T) {
	api := &fakeAPI{hits: []comicvine.SearchResult{
		{Entity: comicvine.Entity{ID: 1, Name: "Joker"}, ResourceType: "character"},
		{Entity: comicvine.Entity{ID: 2, Name: "Joker Jr"}, ResourceType: "character"},
	}}
	reg := newRegistry(t, api)

	res := call(t, reg, "search", `{"query":"joker","resources":["character"],"limit":2}`)
	require.False(t, res.IsError, text(t, res))
	md := text(t, res)
	assert.Contains(t, md, "# Search Results for \"joker\"")
	assert.Contains(t, md, "## Character (2 results)")
	assert.NotContains(t, md, "## Issue")

	assert.Equal(t, "joker", api.lastQuery)
	assert.Equal(t, []string{"character"}, api.search.Resources)
	require.NotNil(t, api.search.Limit)
	assert.Equal(t, 2, *api.search.Limit)
}
