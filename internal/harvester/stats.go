package harvester

import (
	"bytes"
	"encoding/json"
)

// RecordStats summarizes a collected record set for the run log.
type RecordStats struct {
	EarliestCreatedAt string
	LatestCreatedAt   string
	FieldNames        []string
}

// DescribeRecords reports the lexical min and max of the string field
// dateField and the first maxFields keys of the first record, in document order.
func DescribeRecords(records []json.RawMessage, dateField string, maxFields int) RecordStats {
	var stats RecordStats
	for _, rec := range records {
		v := stringField(rec, dateField)
		if v == "" {
			continue
		}
		if stats.EarliestCreatedAt == "" || v < stats.EarliestCreatedAt {
			stats.EarliestCreatedAt = v
		}
		if v > stats.LatestCreatedAt {
			stats.LatestCreatedAt = v
		}
	}
	if len(records) > 0 {
		stats.FieldNames = objectKeys(records[0], maxFields)
	}
	return stats
}

// stringField returns the named top-level string field of an object, or "".
func stringField(raw json.RawMessage, name string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(obj[name], &s); err != nil {
		return ""
	}
	return s
}

// objectKeys returns up to limit keys of a JSON object in document order.
func objectKeys(raw json.RawMessage, limit int) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() && len(keys) < limit {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
