package models

import "time"

// RunStatus is the outcome of one harvest run as stored in the run history.
type RunStatus string

const (
	RunStatusStarted   RunStatus = "STARTED"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusPartial   RunStatus = "PARTIAL"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunRecord is one row of the run history.
type RunRecord struct {
	ID             int64
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Status         RunStatus
	PageSize       int
	PagesFetched   int
	TotalIncidents int
	ReportedTotal  int
	Termination    Termination
	SnapshotPath   string
	Error          string
}

// StatusForTermination maps a collection outcome to a run status.
func StatusForTermination(t Termination) RunStatus {
	if t.Complete() {
		return RunStatusCompleted
	}
	return RunStatusPartial
}
