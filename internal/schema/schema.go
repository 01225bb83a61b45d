// Package schema holds the input contracts of the Comic Vine tools and
// validates tool arguments against them before any remote call is made.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidArguments is matched by every *ValidationError.
var ErrInvalidArguments = errors.New("invalid arguments")

// Input is the JSON Schema of one tool together with the closed field_list
// enumeration it was built from (nil when field_list is free-form).
type Input struct {
	Tool   string
	Doc    json.RawMessage
	fields []string
}

// Fields returns the selectable field_list entries, or nil for free-form lists.
func (in *Input) Fields() []string {
	return append([]string(nil), in.fields...)
}

// List builds the input of a "list" tool: field_list, limit, offset, sort and filter.
func List(tool string, fields []string) *Input {
	props := commonProperties(fields)
	props["limit"] = map[string]any{
		"type":        "integer",
		"minimum":     0,
		"description": "Maximum number of results to return. Default is 100.",
	}
	props["offset"] = map[string]any{
		"type":        "integer",
		"minimum":     0,
		"description": "Number of results to skip. Use this for pagination.",
	}
	props["sort"] = sortProperty()
	return build(tool, fields, props, nil)
}

// Get builds the input of a "get-by-id" tool: id plus field_list and filter.
func Get(tool string, fields []string) *Input {
	props := commonProperties(fields)
	props["id"] = map[string]any{
		"type":        "integer",
		"minimum":     1,
		"description": "Unique identifier of the resource.",
	}
	return build(tool, fields, props, []string{"id"})
}

// Search builds the input of the search tool. Search takes no filter.
func Search(tool string) *Input {
	props := map[string]any{
		"query": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The search query string",
		},
		"resources": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "enum": SearchResources},
			"description": "Limit search to specific resource types",
		},
		"field_list": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "List of fields to include in the response for each resource type",
		},
		"limit": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Maximum number of results to return. Default is 10.",
		},
		"offset": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"description": "Number of results to skip. Use this for pagination.",
		},
		"sort": sortProperty(),
	}
	return build(tool, nil, props, []string{"query"})
}

func commonProperties(fields []string) map[string]any {
	return map[string]any{
		"field_list": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "enum": fields},
			"description": "List of field names to include in the response. This allows you to customize which fields you want returned.",
		},
		"filter": map[string]any{
			"anyOf": []any{
				map[string]any{"type": "string"},
				map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
			"description": "Filter criteria to apply. Can be a string in Comic Vine filter format (field:value,field:value) or an object with field-value pairs.",
		},
	}
}

func sortProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": `Field to sort results by, e.g. "name:asc" or "date_added:desc".`,
	}
}

func build(tool string, fields []string, props map[string]any, required []string) *Input {
	doc := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	b, err := json.Marshal(doc)
	if err != nil {
		// Only static maps of strings and numbers reach here.
		panic(fmt.Sprintf("schema: marshal %s: %v", tool, err))
	}
	return &Input{Tool: tool, Doc: b, fields: fields}
}
