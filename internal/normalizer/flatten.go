package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/scvsar/incidentharvest/internal/models"
)

// PathSeparator joins nested object keys into column names.
const PathSeparator = "."

// FlattenRecord turns one JSON object into dot-path cells. Nested objects are
// expanded; lists are kept whole as compact JSON. When a key that already
// contains a dot collides with a nested path, the nested path wins.
func FlattenRecord(raw json.RawMessage) (map[string]models.Value, error) {
	cells, _, err := flattenRecord(raw)
	return cells, err
}

// flattenRecord also returns the column names that were produced more than
// once, sorted.
func flattenRecord(raw json.RawMessage) (map[string]models.Value, []string, error) {
	f := &flattener{
		cells:   make(map[string]models.Value),
		literal: make(map[string]bool),
	}
	if err := f.walk(raw, "", false); err != nil {
		return nil, nil, err
	}
	sort.Strings(f.conflicts)
	return f.cells, f.conflicts, nil
}

type flattener struct {
	cells map[string]models.Value
	// literal marks cells whose path went through a key containing a dot.
	literal   map[string]bool
	conflicts []string
}

func (f *flattener) walk(raw json.RawMessage, prefix string, literal bool) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("record is not a JSON object: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("record is null")
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := key
		if prefix != "" {
			name = prefix + PathSeparator + key
		}
		keyLiteral := literal || strings.Contains(key, PathSeparator)

		trimmed := bytes.TrimSpace(obj[key])
		if len(trimmed) > 0 && trimmed[0] == '{' {
			if err := f.walk(trimmed, name, keyLiteral); err != nil {
				return err
			}
			continue
		}
		f.set(name, scalarValue(trimmed), keyLiteral)
	}
	return nil
}

func (f *flattener) set(name string, value models.Value, literal bool) {
	if _, exists := f.cells[name]; exists {
		f.conflicts = append(f.conflicts, name)
		if !f.literal[name] || literal {
			return
		}
	}
	f.cells[name] = value
	f.literal[name] = literal
}

// scalarValue converts a non-object JSON value into a cell. Numbers keep
// their literal text.
func scalarValue(raw []byte) models.Value {
	if len(raw) == 0 {
		return models.NullValue()
	}

	switch raw[0] {
	case 'n':
		return models.NullValue()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return models.NullValue()
		}
		return models.BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return models.NullValue()
		}
		return models.StringValue(s)
	case '[':
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return models.NullValue()
		}
		return models.JSONValue(compact.Bytes())
	default:
		v, _ := models.NumberLiteralValue(string(raw))
		return v
	}
}
