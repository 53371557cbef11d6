package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_EnsureColumnKeepsOrder(t *testing.T) {
	table := NewTable(2)
	table.EnsureColumn("startsAt")
	table.EnsureColumn("address.town")
	table.EnsureColumn("id")
	again := table.EnsureColumn("address.town")

	assert.Equal(t, []string{"address.town", "id", "startsAt"}, table.ColumnNames())
	assert.Len(t, again.Values, 2)
	assert.True(t, again.Values[0].IsNull())

	col, ok := table.Column("id")
	require.True(t, ok)
	assert.Equal(t, "id", col.Name)
	_, ok = table.Column("missing")
	assert.False(t, ok)
}

func TestColumn_Kind(t *testing.T) {
	tests := []struct {
		name     string
		values   []Value
		expected ValueKind
	}{
		{name: "all null", values: []Value{NullValue(), NullValue()}, expected: KindNull},
		{name: "numbers with nulls", values: []Value{NullValue(), NumberValue(1), NumberValue(2)}, expected: KindNumber},
		{name: "mixed", values: []Value{NumberValue(1), StringValue("x")}, expected: KindString},
		{name: "times", values: []Value{TimeValue(time.Unix(0, 0))}, expected: KindTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := &Column{Name: "c", Values: tt.values}
			assert.Equal(t, tt.expected, col.Kind())
		})
	}
}

func TestValue_Text(t *testing.T) {
	assert.Equal(t, "", NullValue().Text())
	assert.Equal(t, "12.5", NumberValue(12.5).Text())
	assert.Equal(t, "3", NumberValue(3).Text())
	assert.Equal(t, "true", BoolValue(true).Text())
	assert.Equal(t, "2024-05-01T10:00:00Z", TimeValue(time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 7200))).Text())
	assert.Equal(t, `["a","b"]`, JSONValue(json.RawMessage(`["a","b"]`)).Text())
}

func TestNumberLiteralValue(t *testing.T) {
	v, ok := NumberLiteralValue("9007199254740993")
	require.True(t, ok)
	assert.Equal(t, KindNumber, v.Kind)
	assert.Equal(t, "9007199254740993", v.Text())

	n, ok := v.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(9007199254740993), n)

	frac, ok := NumberLiteralValue("-1.5e2")
	require.True(t, ok)
	assert.Equal(t, -150.0, frac.Num)
	_, ok = frac.Int64()
	assert.False(t, ok)

	_, ok = NumberLiteralValue("twelve")
	assert.False(t, ok)
}

func TestColumn_Integral(t *testing.T) {
	id1, _ := NumberLiteralValue("1234567890123456789")
	id2, _ := NumberLiteralValue("7")
	assert.True(t, (&Column{Values: []Value{id1, NullValue(), id2}}).Integral())
	assert.True(t, (&Column{Values: []Value{NumberValue(3)}}).Integral())
	assert.False(t, (&Column{Values: []Value{NumberValue(2.5)}}).Integral())
	assert.False(t, (&Column{Values: []Value{StringValue("1")}}).Integral())
}

func TestTermination_Complete(t *testing.T) {
	assert.True(t, TerminationExhausted.Complete())
	assert.True(t, TerminationShortPage.Complete())
	assert.True(t, TerminationReachedTotal.Complete())
	assert.False(t, TerminationPageBound.Complete())
	assert.False(t, TerminationFatalError.Complete())

	assert.Equal(t, RunStatusCompleted, StatusForTermination(TerminationShortPage))
	assert.Equal(t, RunStatusPartial, StatusForTermination(TerminationPageBound))
}

func TestNewSnapshot(t *testing.T) {
	empty := NewSnapshot(SnapshotMetadata{TotalIncidents: 99}, nil)
	assert.Equal(t, 0, empty.Metadata.TotalIncidents)
	assert.NotNil(t, empty.Incidents)

	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"incidents":[]`)

	full := NewSnapshot(SnapshotMetadata{}, []json.RawMessage{json.RawMessage(`{"id":1}`)})
	assert.Equal(t, 1, full.Metadata.TotalIncidents)
}

func TestProbeResult_Capped(t *testing.T) {
	assert.True(t, (&ProbeResult{RequestedSize: 500, ReturnedCount: 200, TotalCount: 900, Working: true}).Capped())
	assert.False(t, (&ProbeResult{RequestedSize: 500, ReturnedCount: 120, TotalCount: 120, Working: true}).Capped())
	assert.False(t, (&ProbeResult{RequestedSize: 500, Working: false}).Capped())
	var nilProbe *ProbeResult
	assert.False(t, nilProbe.Capped())
}
