package comicvine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FilterPair is one field:value condition of a mapping filter.
type FilterPair struct {
	Field string
	Value string
}

// Filter is either a raw Comic Vine filter string ("name:batman,gender:1")
// or an ordered list of field/value pairs. The zero value means "no filter".
type Filter struct {
	raw   string
	pairs []FilterPair
	isMap bool
}

func FilterString(s string) Filter {
	return Filter{raw: s}
}

func FilterMap(pairs ...FilterPair) Filter {
	return Filter{pairs: append([]FilterPair(nil), pairs...), isMap: true}
}

func (f Filter) IsZero() bool {
	return f.Encode() == ""
}

// Encode renders the filter as the remote API expects it: mapping filters
// become comma-joined "field:value" pairs in insertion order, string filters
// pass through unchanged.
func (f Filter) Encode() string {
	if !f.isMap {
		return f.raw
	}
	parts := make([]string, 0, len(f.pairs))
	for _, p := range f.pairs {
		parts = append(parts, p.Field+":"+p.Value)
	}
	return strings.Join(parts, ",")
}

func (f Filter) Pairs() []FilterPair {
	return append([]FilterPair(nil), f.pairs...)
}

// UnmarshalJSON accepts a JSON string or a JSON object of string values.
// Object key order is preserved.
func (f *Filter) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = Filter{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FilterString(s)
		return nil
	}
	if b[0] != '{' {
		return fmt.Errorf("filter must be a string or an object")
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var pairs []FilterPair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("filter value for %q must be a string", key)
		}
		pairs = append(pairs, FilterPair{Field: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = FilterMap(pairs...)
	return nil
}

func (f Filter) MarshalJSON() ([]byte, error) {
	if !f.isMap {
		return json.Marshal(f.raw)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range f.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(p.Field)
		v, _ := json.Marshal(p.Value)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Params are the common query options of list and detail calls. Detail calls
// ignore Limit, Offset and Sort.
type Params struct {
	FieldList []string
	Limit     *int
	Offset    *int
	Sort      string
	Filter    Filter
}

// SearchParams are the options of the /search endpoint. Search does not
// take a filter.
type SearchParams struct {
	Resources []string
	FieldList []string
	Limit     *int
	Offset    *int
	Sort      string
}

func (p Params) values() url.Values {
	q := url.Values{}
	setFieldList(q, p.FieldList)
	setInt(q, "limit", p.Limit)
	setInt(q, "offset", p.Offset)
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if v := p.Filter.Encode(); v != "" {
		q.Set("filter", v)
	}
	return q
}

func (p Params) detailValues() url.Values {
	q := url.Values{}
	setFieldList(q, p.FieldList)
	if v := p.Filter.Encode(); v != "" {
		q.Set("filter", v)
	}
	return q
}

func (p SearchParams) values(query string) url.Values {
	q := url.Values{}
	q.Set("query", query)
	if len(p.Resources) > 0 {
		q.Set("resources", strings.Join(p.Resources, ","))
	}
	setFieldList(q, p.FieldList)
	setInt(q, "limit", p.Limit)
	setInt(q, "offset", p.Offset)
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	return q
}

func setFieldList(q url.Values, fields []string) {
	if len(fields) == 0 {
		return
	}
	q.Set("field_list", strings.Join(fields, ","))
}

func setInt(q url.Values, key string, v *int) {
	if v == nil {
		return
	}
	q.Set(key, strconv.Itoa(*v))
}
