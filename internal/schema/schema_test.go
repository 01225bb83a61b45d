package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAcceptsValidArguments(t *testing.T) {
	in := List("get-characters", CharacterFields)
	cases := []string{
		``,
		`null`,
		`{}`,
		`{"field_list":["name","real_name"],"limit":10,"offset":20,"sort":"name:asc"}`,
		`{"filter":"name:Batman"}`,
		`{"filter":{"name":"Batman","gender":"1"}}`,
	}
	for _, args := range cases {
		assert.NoError(t, in.Validate(json.RawMessage(args)), args)
	}
}

func TestUnknownFieldIsRejectedWithSuggestion(t *testing.T) {
	in := List("get-characters", CharacterFields)
	err := in.Validate(json.RawMessage(`{"field_list":["name","realname"]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArguments))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "/field_list/1", ve.Location)
	assert.Equal(t, "real_name", ve.Suggestion)
	assert.Contains(t, err.Error(), `"realname" is not a selectable field`)
}

func TestFieldsAreClosedPerType(t *testing.T) {
	// "powers" is a character field, not an issue field.
	assert.NoError(t, List("get-characters", CharacterFields).Validate(json.RawMessage(`{"field_list":["powers"]}`)))
	assert.Error(t, List("get-issues", IssueFields).Validate(json.RawMessage(`{"field_list":["powers"]}`)))
}

func TestWrongTypes(t *testing.T) {
	in := List("get-volumes", VolumeFields)
	for _, args := range []string{
		`{"limit":"ten"}`,
		`{"limit":1.5}`,
		`{"offset":-1}`,
		`{"filter":["a"]}`,
		`{"filter":{"a":1}}`,
		`{"unknown":true}`,
		`[]`,
		`{bad json`,
	} {
		err := in.Validate(json.RawMessage(args))
		assert.ErrorIs(t, err, ErrInvalidArguments, args)
	}
}

func TestGetRequiresID(t *testing.T) {
	in := Get("get-issue", IssueFields)
	assert.Error(t, in.Validate(json.RawMessage(`{}`)))
	assert.Error(t, in.Validate(json.RawMessage(`{"id":0}`)))
	assert.NoError(t, in.Validate(json.RawMessage(`{"id":6,"field_list":["name"],"filter":"x:y"}`)))
	// Pagination does not apply to a single fetch.
	assert.Error(t, in.Validate(json.RawMessage(`{"id":6,"limit":5}`)))
}

func TestSearchContract(t *testing.T) {
	in := Search("search")
	assert.NoError(t, in.Validate(json.RawMessage(`{"query":"joker","resources":["character","story_arc"],"field_list":["anything"]}`)))
	assert.Error(t, in.Validate(json.RawMessage(`{"resources":["character"]}`)))
	assert.Error(t, in.Validate(json.RawMessage(`{"query":"joker","resources":["movie"]}`)))
	assert.Error(t, in.Validate(json.RawMessage(`{"query":"joker","filter":"a:b"}`)))
	assert.Nil(t, in.Fields())
}

func TestDocIsObjectSchema(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(Get("get-volume", VolumeFields).Doc, &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"id"}, doc["required"])
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "name", Suggest("nam", CharacterFields))
	assert.Equal(t, "birth", Suggest("birht", CharacterFields))
	assert.Equal(t, "count_of_issues", Suggest("count_issues", VolumeFields))
	assert.Equal(t, "", Suggest("zzzzzzzzzzzz", PublisherFields))
	assert.Equal(t, "", Suggest("", PublisherFields))
}
