package normalizer

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/scvsar/incidentharvest/internal/models"
)

// Derived coordinate column names.
const (
	LatitudeColumn  = "latitude"
	LongitudeColumn = "longitude"
)

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// timeLayouts are tried in order. Values without a zone are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// CoerceTime parses a timestamp cell. Anything unparseable becomes null.
func CoerceTime(v models.Value) models.Value {
	switch v.Kind {
	case models.KindTime:
		return v
	case models.KindString:
		s := strings.TrimSpace(v.Str)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return models.TimeValue(t)
			}
		}
	}
	return models.NullValue()
}

// CoerceNumber converts a cell to a finite float. Numeric strings are parsed,
// booleans map to 1 and 0, everything else becomes null.
func CoerceNumber(v models.Value) models.Value {
	var f float64
	switch v.Kind {
	case models.KindNumber:
		f = v.Num
	case models.KindBool:
		if v.Bool {
			f = 1
		}
	case models.KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return models.NullValue()
		}
		f = parsed
	default:
		return models.NullValue()
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.NullValue()
	}
	return models.NumberValue(f)
}

// CleanText strips markup tags. Non-string cells are stringified first;
// null stays null.
func CleanText(v models.Value) models.Value {
	if v.IsNull() {
		return v
	}
	return models.StringValue(markupPattern.ReplaceAllString(v.Text(), ""))
}

// DecodeCoordinates splits a two-element list into latitude and longitude,
// in that order. Any other shape yields two nulls.
func DecodeCoordinates(v models.Value) (lat, lon models.Value) {
	if v.Kind != models.KindJSON {
		return models.NullValue(), models.NullValue()
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(v.Raw, &pair); err != nil || len(pair) != 2 {
		return models.NullValue(), models.NullValue()
	}

	lat = CoerceNumber(scalarValue(pair[0]))
	lon = CoerceNumber(scalarValue(pair[1]))
	if lat.IsNull() || lon.IsNull() {
		return models.NullValue(), models.NullValue()
	}
	return lat, lon
}
