package models

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"
)

// ValueKind is the semantic type of a table cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindTime
	KindJSON
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindJSON:
		return "json"
	default:
		return "null"
	}
}

// Value is one typed table cell. Only the field matching Kind is meaningful.
// A number read from a record keeps its source text in Lit, since Num cannot
// hold every integer exactly.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Lit  string
	Bool bool
	Time time.Time
	Raw  json.RawMessage
}

func NullValue() Value                    { return Value{Kind: KindNull} }
func StringValue(s string) Value          { return Value{Kind: KindString, Str: s} }
func NumberValue(f float64) Value         { return Value{Kind: KindNumber, Num: f} }
func BoolValue(b bool) Value              { return Value{Kind: KindBool, Bool: b} }
func TimeValue(t time.Time) Value         { return Value{Kind: KindTime, Time: t.UTC()} }
func JSONValue(raw json.RawMessage) Value { return Value{Kind: KindJSON, Raw: raw} }

// NumberLiteralValue parses a JSON number literal, keeping the literal text.
func NumberLiteralValue(lit string) (Value, bool) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return NullValue(), false
		}
	}
	return Value{Kind: KindNumber, Num: f, Lit: lit}, true
}

// Int64 returns the cell as an exact integer, if it is one.
func (v Value) Int64() (int64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	if v.Lit != "" {
		n, err := strconv.ParseInt(v.Lit, 10, 64)
		return n, err == nil
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > maxExactFloatInt {
		return 0, false
	}
	return int64(v.Num), true
}

// maxExactFloatInt is 2^53, the largest integer a float64 holds exactly.
const maxExactFloatInt = 1 << 53

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Text renders the cell for text exports. Null renders as the empty string.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		if v.Lit != "" {
			return v.Lit
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTime:
		return v.Time.Format(time.RFC3339Nano)
	case KindJSON:
		return string(v.Raw)
	default:
		return ""
	}
}

// Column is one named table column.
type Column struct {
	Name   string
	Values []Value
}

// Kind returns the common kind of all non-null cells, KindString when they
// disagree, or KindNull when every cell is null.
func (c *Column) Kind() ValueKind {
	kind := KindNull
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = v.Kind
			continue
		}
		if kind != v.Kind {
			return KindString
		}
	}
	return kind
}

// Integral reports whether the column holds numbers only, all exact integers.
func (c *Column) Integral() bool {
	if c.Kind() != KindNumber {
		return false
	}
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		if _, ok := v.Int64(); !ok {
			return false
		}
	}
	return true
}

// Table is a column-oriented table with columns kept sorted by name.
type Table struct {
	Columns []*Column
	Rows    int
}

// NewTable creates an empty table with the given number of rows.
func NewTable(rows int) *Table {
	return &Table{Rows: rows}
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i := sort.Search(len(t.Columns), func(i int) bool { return t.Columns[i].Name >= name })
	if i < len(t.Columns) && t.Columns[i].Name == name {
		return t.Columns[i], true
	}
	return nil, false
}

// EnsureColumn returns the named column, adding an all-null one if needed.
func (t *Table) EnsureColumn(name string) *Column {
	i := sort.Search(len(t.Columns), func(i int) bool { return t.Columns[i].Name >= name })
	if i < len(t.Columns) && t.Columns[i].Name == name {
		return t.Columns[i]
	}

	col := &Column{Name: name, Values: make([]Value, t.Rows)}
	t.Columns = append(t.Columns, nil)
	copy(t.Columns[i+1:], t.Columns[i:])
	t.Columns[i] = col
	return col
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
