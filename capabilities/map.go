// Package capabilities turns a client's WebDriver capabilities into a
// Firefox launch configuration.
//
// The flow for one new-session request is:
//
//	caps, err := capabilities.Parse(body)
//	m := capabilities.NewMatcher(fallbackBinary, resolver)
//	m.Init(caps)
//	for key, value := range moz keys { m.ValidateCustom(key, value) }
//	cfg, err := builder.Build(m.ChosenBinary(), settings, caps)
//
// Build removes the keys it consumed from caps, leaving the rest for the
// generic protocol layer.
package capabilities

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/geckocaps/errors"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a JSON object with its key order preserved.
//
// Values are nil, bool, string, json.Number, []any or *Map.
type Map = orderedmap.OrderedMap[string, any]

// NewMap creates an empty Map.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// Parse decodes a JSON object. Numbers are kept as json.Number so integers
// and floats stay distinguishable.
func Parse(data []byte) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewInvalidArgument("capabilities are not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.NewInvalidArgument("capabilities are not a JSON object")
	}
	return decodeObject(root), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(data string) *Map {
	m, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return m
}

func decodeObject(r gjson.Result) *Map {
	m := NewMap()
	r.ForEach(func(key, value gjson.Result) bool {
		m.Set(key.String(), decodeValue(value))
		return true
	})
	return m
}

func decodeValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		items := r.Array()
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, decodeValue(item))
		}
		return list
	}
	return decodeObject(r)
}

// FromMap converts a Go map into a Map. Nested maps are converted
// recursively with keys in sorted order, since Go maps have none.
func FromMap(in map[string]any) *Map {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := NewMap()
	for _, k := range keys {
		m.Set(k, normalize(in[k]))
	}
	return m
}

// normalize maps Go values onto the value set used by Map.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return FromMap(x)
	case *Map:
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out
	case int:
		return json.Number(strconv.Itoa(x))
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case uint64:
		return json.Number(strconv.FormatUint(x, 10))
	case float64:
		return FloatNumber(x)
	default:
		return v
	}
}

// FloatNumber renders f as a JSON number that always reads back as a
// float, so 1.0 stays "1.0" rather than becoming the integer "1".
func FloatNumber(f float64) json.Number {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return json.Number(s)
}

// Keys returns the keys of m in order.
func Keys(m *Map) []string {
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// isInteger reports whether n is a JSON integer representable as int64 or
// uint64.
func isInteger(n json.Number) bool {
	if _, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseUint(string(n), 10, 64)
	return err == nil
}

// asInt64 converts an integer json.Number, failing for fractions and for
// values outside the int64 range.
func asInt64(n json.Number) (int64, bool) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	return i, err == nil
}
