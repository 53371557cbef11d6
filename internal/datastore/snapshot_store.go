package datastore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/models"
)

// SnapshotStore reads and writes harvest snapshots as pretty-printed JSON.
type SnapshotStore struct {
	files  *common.FileManager
	logger zerolog.Logger
}

// NewSnapshotStore creates a snapshot store
func NewSnapshotStore(logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		files:  common.NewFileManager(logger),
		logger: logger.With().Str("component", "SnapshotStore").Logger(),
	}
}

// Write persists snapshot to path, replacing any existing file atomically.
func (s *SnapshotStore) Write(path string, snapshot *models.Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	if err := s.files.WriteFile(path, data, common.DefaultFileWriteOptions()); err != nil {
		return common.WrapError(err, "failed to write snapshot")
	}

	s.logger.Info().
		Str("path", path).
		Int("total_incidents", snapshot.Metadata.TotalIncidents).
		Int("pages_fetched", snapshot.Metadata.PagesFetched).
		Msg("Snapshot written")
	return nil
}

// Read loads a snapshot from path.
func (s *SnapshotStore) Read(path string) (*models.Snapshot, error) {
	data, err := s.files.ReadFile(path, 0)
	if err != nil {
		return nil, common.WrapError(err, "failed to read snapshot")
	}
	return DecodeSnapshot(data)
}

// EncodeSnapshot renders snapshot as UTF-8 JSON with two-space indentation and
// without HTML escaping.
func EncodeSnapshot(snapshot *models.Snapshot) ([]byte, error) {
	if snapshot.Incidents == nil {
		snapshot.Incidents = []json.RawMessage{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a snapshot document. A document without an
// incidents list is rejected.
func DecodeSnapshot(data []byte) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Incidents == nil {
		return nil, common.NewValidationError("incidents", nil, "snapshot has no incidents list")
	}
	return &snapshot, nil
}
