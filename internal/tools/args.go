package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
)

type listArgs struct {
	FieldList []string         `json:"field_list,omitempty"`
	Limit     *wholeNumber     `json:"limit,omitempty"`
	Offset    *wholeNumber     `json:"offset,omitempty"`
	Sort      string           `json:"sort,omitempty"`
	Filter    comicvine.Filter `json:"filter"`
}

func (a listArgs) params() comicvine.Params {
	return comicvine.Params{
		FieldList: a.FieldList,
		Limit:     a.Limit.ptr(),
		Offset:    a.Offset.ptr(),
		Sort:      a.Sort,
		Filter:    a.Filter,
	}
}

type getArgs struct {
	ID        wholeNumber      `json:"id"`
	FieldList []string         `json:"field_list,omitempty"`
	Filter    comicvine.Filter `json:"filter"`
}

func (a getArgs) params() comicvine.Params {
	return comicvine.Params{FieldList: a.FieldList, Filter: a.Filter}
}

type searchArgs struct {
	Query     string       `json:"query"`
	Resources []string     `json:"resources,omitempty"`
	FieldList []string     `json:"field_list,omitempty"`
	Limit     *wholeNumber `json:"limit,omitempty"`
	Offset    *wholeNumber `json:"offset,omitempty"`
	Sort      string       `json:"sort,omitempty"`
}

func (a searchArgs) params() comicvine.SearchParams {
	return comicvine.SearchParams{
		Resources: a.Resources,
		FieldList: a.FieldList,
		Limit:     a.Limit.ptr(),
		Offset:    a.Offset.ptr(),
		Sort:      a.Sort,
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

// wholeNumber decodes any JSON number with no fractional part, so 5 and 5.0
// both pass, as they do for a JSON Schema "integer".
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("%s is not a whole number", b)
	}
	*n = wholeNumber(f)
	return nil
}

func (n *wholeNumber) ptr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}
