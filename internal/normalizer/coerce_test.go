package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/scvsar/incidentharvest/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCoerceTime(t *testing.T) {
	tests := []struct {
		name     string
		input    models.Value
		expected models.Value
	}{
		{
			name:     "api timestamp",
			input:    models.StringValue("2024-03-05T14:30:00.000Z"),
			expected: models.TimeValue(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)),
		},
		{
			name:     "offset converted to UTC",
			input:    models.StringValue("2024-03-05T07:30:00-07:00"),
			expected: models.TimeValue(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)),
		},
		{
			name:     "date only",
			input:    models.StringValue("2024-03-05"),
			expected: models.TimeValue(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		},
		{name: "garbage", input: models.StringValue("not a date"), expected: models.NullValue()},
		{name: "number", input: models.NumberValue(1700000000), expected: models.NullValue()},
		{name: "null", input: models.NullValue(), expected: models.NullValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceTime(tt.input)
			assert.Equal(t, tt.expected.Kind, got.Kind)
			assert.True(t, tt.expected.Time.Equal(got.Time))
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    models.Value
		expected models.Value
	}{
		{name: "number", input: models.NumberValue(3), expected: models.NumberValue(3)},
		{name: "numeric string", input: models.StringValue(" 12.75 "), expected: models.NumberValue(12.75)},
		{name: "true", input: models.BoolValue(true), expected: models.NumberValue(1)},
		{name: "text", input: models.StringValue("many"), expected: models.NullValue()},
		{name: "nan string", input: models.StringValue("NaN"), expected: models.NullValue()},
		{name: "list", input: models.JSONValue(json.RawMessage(`[1]`)), expected: models.NullValue()},
		{name: "null", input: models.NullValue(), expected: models.NullValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceNumber(tt.input))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, models.StringValue("Hello World"), CleanText(models.StringValue("<p>Hello <b>World</b></p>")))
	assert.Equal(t, models.StringValue("a < b"), CleanText(models.StringValue("a < b")))
	assert.Equal(t, models.StringValue("42"), CleanText(models.NumberValue(42)))
	assert.True(t, CleanText(models.NullValue()).IsNull())
}

func TestDecodeCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		input models.Value
		lat   models.Value
		lon   models.Value
	}{
		{
			name:  "pair",
			input: models.JSONValue(json.RawMessage(`[12.5,-3.25]`)),
			lat:   models.NumberValue(12.5),
			lon:   models.NumberValue(-3.25),
		},
		{
			name:  "numeric strings",
			input: models.JSONValue(json.RawMessage(`["45.7","-121.9"]`)),
			lat:   models.NumberValue(45.7),
			lon:   models.NumberValue(-121.9),
		},
		{name: "three elements", input: models.JSONValue(json.RawMessage(`[1,2,3]`)), lat: models.NullValue(), lon: models.NullValue()},
		{name: "one element", input: models.JSONValue(json.RawMessage(`[1]`)), lat: models.NullValue(), lon: models.NullValue()},
		{name: "non numeric", input: models.JSONValue(json.RawMessage(`["a","b"]`)), lat: models.NullValue(), lon: models.NullValue()},
		{name: "string", input: models.StringValue("12.5,-3.25"), lat: models.NullValue(), lon: models.NullValue()},
		{name: "missing", input: models.NullValue(), lat: models.NullValue(), lon: models.NullValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := DecodeCoordinates(tt.input)
			assert.Equal(t, tt.lat, lat)
			assert.Equal(t, tt.lon, lon)
		})
	}
}
