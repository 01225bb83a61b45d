package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var schemaCache sync.Map // key -> *jsonschema.Schema

// ValidationError describes the first failing constraint of a tool call.
type ValidationError struct {
	Tool       string
	Location   string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid arguments for %s at %s: %s", e.Tool, e.Location, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArguments }

func schemaCacheKey(tool string, doc json.RawMessage) string {
	sum := sha256.Sum256(doc)
	return tool + ":" + hex.EncodeToString(sum[:])
}

func compile(tool string, doc json.RawMessage) (*jsonschema.Schema, error) {
	key := schemaCacheKey(tool, doc)
	if v, ok := schemaCache.Load(key); ok {
		return v.(*jsonschema.Schema), nil
	}
	s, err := jsonschema.CompileString(tool+".json", string(doc))
	if err != nil {
		return nil, err
	}
	schemaCache.Store(key, s)
	return s, nil
}

func firstLeafValidationError(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	if err == nil {
		return nil
	}
	if len(err.Causes) == 0 {
		return err
	}
	for _, c := range err.Causes {
		if leaf := firstLeafValidationError(c); leaf != nil {
			return leaf
		}
	}
	return err
}

// Validate checks raw tool arguments. A nil or empty payload is treated as {}.
func (in *Input) Validate(args json.RawMessage) error {
	s, err := compile(in.Tool, in.Doc)
	if err != nil {
		return fmt.Errorf("invalid input schema for %s: %w", in.Tool, err)
	}

	var v any = map[string]any{}
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return &ValidationError{Tool: in.Tool, Location: "/", Message: "arguments are not valid JSON: " + err.Error()}
		}
	}

	err = s.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Tool: in.Tool, Location: "/", Message: err.Error()}
	}

	leaf := firstLeafValidationError(ve)
	out := &ValidationError{Tool: in.Tool, Location: leaf.InstanceLocation, Message: leaf.Message}
	if out.Location == "" {
		out.Location = "/"
	}
	if out.Message == "" {
		out.Message = leaf.Error()
	}

	if bad, ok := fieldListEntry(v, out.Location); ok && in.fields != nil {
		out.Message = fmt.Sprintf("%q is not a selectable field", bad)
		out.Suggestion = Suggest(bad, in.fields)
	}
	return out
}

// fieldListEntry returns the string at /field_list/<n> when loc points there.
func fieldListEntry(v any, loc string) (string, bool) {
	rest, ok := strings.CutPrefix(loc, "/field_list/")
	if !ok {
		return "", false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return "", false
	}
	obj, _ := v.(map[string]any)
	list, _ := obj["field_list"].([]any)
	if idx < 0 || idx >= len(list) {
		return "", false
	}
	s, ok := list[idx].(string)
	return s, ok
}

// Suggest returns the candidate closest to value, or "" when nothing is close.
func Suggest(value string, candidates []string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if ranks := fuzzy.RankFindNormalizedFold(value, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	lower := strings.ToLower(value)
	best, bestDist := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(lower, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist >= 0 && bestDist <= max(2, len(value)/3) {
		return best
	}
	return ""
}
