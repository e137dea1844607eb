package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/teranos/geckocaps/capabilities"
	"github.com/teranos/geckocaps/errors"
)

// readCapabilities reads a capabilities object from path, or stdin for
// "-". Files ending in .toml are TOML, everything else JSON.
func readCapabilities(path string, stdin io.Reader) (*capabilities.Map, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read capabilities from %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return decodeTOML(data)
	}
	return capabilities.Parse(data)
}

// decodeTOML converts a TOML document into a capabilities object. Keys
// keep document order; values use the same types as decoded JSON.
func decodeTOML(data []byte) (*capabilities.Map, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML capabilities")
	}

	caps := capabilities.NewMap()
	for _, key := range md.Keys() {
		if err := placeTOMLKey(caps, raw, key); err != nil {
			return nil, err
		}
	}
	// Inline tables may not list their keys; add anything missed
	if err := fillTOMLTable(caps, raw); err != nil {
		return nil, err
	}
	return caps, nil
}

// placeTOMLKey creates the path of key inside m, setting the leaf value
func placeTOMLKey(m *capabilities.Map, raw map[string]any, key toml.Key) error {
	table := raw
	for _, part := range key {
		value, ok := table[part]
		if !ok {
			return nil
		}

		sub, isTable := value.(map[string]any)
		if !isTable {
			if _, exists := m.Get(part); exists {
				return nil
			}
			converted, err := tomlValue(value)
			if err != nil {
				return errors.Wrapf(err, "key %s", key.String())
			}
			m.Set(part, converted)
			return nil
		}

		child, _ := m.Get(part)
		childMap, ok := child.(*capabilities.Map)
		if !ok {
			childMap = capabilities.NewMap()
			m.Set(part, childMap)
		}
		m, table = childMap, sub
	}
	return nil
}

// fillTOMLTable adds the keys of raw missing from m, in sorted order
func fillTOMLTable(m *capabilities.Map, raw map[string]any) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		existing, ok := m.Get(k)
		if !ok {
			converted, err := tomlValue(raw[k])
			if err != nil {
				return errors.Wrapf(err, "key %s", k)
			}
			m.Set(k, converted)
			continue
		}
		sub, isTable := raw[k].(map[string]any)
		childMap, isMap := existing.(*capabilities.Map)
		if isTable && isMap {
			if err := fillTOMLTable(childMap, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func tomlValue(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		m := capabilities.NewMap()
		if err := fillTOMLTable(m, x); err != nil {
			return nil, err
		}
		return m, nil
	case []map[string]any:
		out := make([]any, len(x))
		for i, item := range x {
			converted, err := tomlValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			converted, err := tomlValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case int64:
		return json.Number(strconv.FormatInt(x, 10)), nil
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, errors.Newf("%v cannot be represented in JSON", x)
		}
		return capabilities.FloatNumber(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case string, bool:
		return x, nil
	default:
		// Local dates and times
		return fmt.Sprint(x), nil
	}
}
