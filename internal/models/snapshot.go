package models

import (
	"encoding/json"
	"time"
)

// Termination records why the collection loop stopped.
type Termination string

const (
	TerminationExhausted    Termination = "exhausted"
	TerminationShortPage    Termination = "short_page"
	TerminationReachedTotal Termination = "reached_total"
	TerminationPageBound    Termination = "page_bound"
	TerminationFatalError   Termination = "fatal_error"
)

// Complete reports whether the loop ended because the server ran out of records.
func (t Termination) Complete() bool {
	switch t {
	case TerminationExhausted, TerminationShortPage, TerminationReachedTotal:
		return true
	default:
		return false
	}
}

// DateRange is the requested collection window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SnapshotMetadata describes how a snapshot was collected.
type SnapshotMetadata struct {
	TotalIncidents int         `json:"total_incidents"`
	DateRange      DateRange   `json:"date_range"`
	CollectedAt    time.Time   `json:"collected_at"`
	PageSizeUsed   int         `json:"page_size_used"`
	PagesFetched   int         `json:"pages_fetched"`
	RunID          string      `json:"run_id,omitempty"`
	ReportedTotal  int         `json:"reported_total,omitempty"`
	Termination    Termination `json:"termination,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// Snapshot is the persisted result of one harvest run. Incidents are kept
// exactly as the server returned them.
type Snapshot struct {
	Metadata  SnapshotMetadata  `json:"metadata"`
	Incidents []json.RawMessage `json:"incidents"`
}

// NewSnapshot builds a snapshot whose total matches the record count.
func NewSnapshot(metadata SnapshotMetadata, incidents []json.RawMessage) *Snapshot {
	if incidents == nil {
		incidents = []json.RawMessage{}
	}
	metadata.TotalIncidents = len(incidents)
	return &Snapshot{Metadata: metadata, Incidents: incidents}
}
