package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/models"
	_ "modernc.org/sqlite"
)

// RunHistory is the sqlite ledger of harvest runs.
type RunHistory struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRunHistory opens (or creates) the ledger at dataSourceName and ensures the schema.
func NewRunHistory(dataSourceName string, logger zerolog.Logger) (*RunHistory, error) {
	logger = logger.With().Str("component", "RunHistory").Logger()
	logger.Debug().Str("db_path", dataSourceName).Msg("Opening run history database")

	if dataSourceName != ":memory:" {
		dbDir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create run history directory %s: %w", dbDir, err)
		}
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	db.SetMaxOpenConns(1)

	h := &RunHistory{db: db, logger: logger}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return h, nil
}

// Close closes the database connection.
func (h *RunHistory) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

func (h *RunHistory) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS harvest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		status TEXT NOT NULL,
		page_size INTEGER DEFAULT 0,
		pages_fetched INTEGER DEFAULT 0,
		total_incidents INTEGER DEFAULT 0,
		reported_total INTEGER DEFAULT 0,
		termination TEXT,
		snapshot_path TEXT,
		error TEXT
	);
	`
	if _, err := h.db.Exec(query); err != nil {
		h.logger.Error().Err(err).Msg("Failed to initialize run history schema")
		return err
	}
	return nil
}

// RecordRunStart inserts a STARTED row and returns its database ID.
func (h *RunHistory) RecordRunStart(runID string, startedAt time.Time) (int64, error) {
	query := `INSERT INTO harvest_runs (run_id, started_at, status) VALUES (?, ?, ?)`
	result, err := h.db.Exec(query, runID, formatDBTime(startedAt), string(models.RunStatusStarted))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	h.logger.Debug().Int64("db_id", id).Str("run_id", runID).Msg("Recorded run start")
	return id, nil
}

// UpdateRunCompletion stores the outcome of the run identified by record.RunID.
func (h *RunHistory) UpdateRunCompletion(record models.RunRecord) error {
	query := `UPDATE harvest_runs SET finished_at = ?, status = ?, page_size = ?, pages_fetched = ?,
		total_incidents = ?, reported_total = ?, termination = ?, snapshot_path = ?, error = ? WHERE run_id = ?`
	result, err := h.db.Exec(query,
		formatDBTime(record.FinishedAt),
		string(record.Status),
		record.PageSize,
		record.PagesFetched,
		record.TotalIncidents,
		record.ReportedTotal,
		nullString(string(record.Termination)),
		nullString(record.SnapshotPath),
		nullString(record.Error),
		record.RunID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", record.RunID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found in history", record.RunID)
	}
	h.logger.Debug().Str("run_id", record.RunID).Str("status", string(record.Status)).Msg("Updated run completion")
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *RunHistory) ListRuns(limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, run_id, started_at, finished_at, status, page_size, pages_fetched,
		total_incidents, reported_total, termination, snapshot_path, error
		FROM harvest_runs ORDER BY started_at DESC, id DESC LIMIT ?`

	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var (
			rec                                   models.RunRecord
			startedAt, status                     string
			finishedAt, termination, path, errMsg sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &startedAt, &finishedAt, &status, &rec.PageSize,
			&rec.PagesFetched, &rec.TotalIncidents, &rec.ReportedTotal, &termination, &path, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run history row: %w", err)
		}

		rec.Status = models.RunStatus(status)
		rec.StartedAt = parseDBTime(startedAt)
		rec.FinishedAt = parseDBTime(finishedAt.String)
		rec.Termination = models.Termination(termination.String)
		rec.SnapshotPath = path.String
		rec.Error = errMsg.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// dbTimeLayout is fixed-width so stored timestamps sort lexically.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatDBTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dbTimeLayout)
}

func parseDBTime(s string) time.Time {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
