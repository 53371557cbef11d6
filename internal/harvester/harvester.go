package harvester

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/models"
)

// SnapshotWriter persists a finished snapshot.
type SnapshotWriter interface {
	Write(path string, snapshot *models.Snapshot) error
}

// HarvestResult describes one harvest run.
type HarvestResult struct {
	RunID         string
	Probes        []models.ProbeResult
	PageSize      int
	Records       []json.RawMessage
	PagesFetched  int
	ReportedTotal int
	Termination   models.Termination
	// Err is the collection failure that ended the loop early, if any. The
	// snapshot is still written in that case.
	Err          error
	Snapshot     *models.Snapshot
	SnapshotPath string
	Stats        RecordStats
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Harvester probes for a page size, collects every page and writes a snapshot.
type Harvester struct {
	config  config.HarvestConfig
	fetcher PageFetcher
	store   SnapshotWriter
	logger  zerolog.Logger
	now     func() time.Time
}

// NewHarvester creates a harvester
func NewHarvester(cfg config.HarvestConfig, fetcher PageFetcher, store SnapshotWriter, logger zerolog.Logger) *Harvester {
	return &Harvester{
		config:  cfg,
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "Harvester").Logger(),
		now:     time.Now,
	}
}

// Run executes one harvest. Probe failures return an error and write
// nothing; the returned result still carries the probe outcomes. Collection
// failures are reported in HarvestResult.Err and do not prevent the snapshot
// from being written.
func (h *Harvester) Run(ctx context.Context, runID string) (*HarvestResult, error) {
	result := &HarvestResult{RunID: runID, StartedAt: h.now().UTC()}
	logger := h.logger.With().Str("run_id", runID).Logger()

	logger.Info().
		Ints("candidate_sizes", h.config.CandidateSizes).
		Str("after", h.config.DateRange.After).
		Str("before", h.config.DateRange.Before).
		Msg("Probing page sizes")

	probes, err := ProbePageSizes(ctx, h.fetcher, h.config.CandidateSizes, logger)
	result.Probes = probes
	if err != nil {
		return result, common.WrapError(err, "page size probe interrupted")
	}

	chosen, err := SelectPageSize(probes)
	if err != nil {
		logger.Error().Msg("No working page sizes found; cannot continue")
		return result, err
	}
	result.PageSize = chosen.RequestedSize

	logger.Info().
		Int("page_size", chosen.RequestedSize).
		Int("total_available", chosen.TotalCount).
		Int("max_pages", h.config.MaxPages).
		Msg("Collecting incidents")

	collected := Collect(ctx, h.fetcher, chosen.RequestedSize, h.config.MaxPages, chosen.TotalCount, logger)
	result.Records = collected.Records
	result.PagesFetched = collected.PagesFetched
	result.ReportedTotal = collected.ReportedTotal
	result.Termination = collected.Termination
	result.Err = collected.Err
	result.FinishedAt = h.now().UTC()

	metadata := models.SnapshotMetadata{
		DateRange: models.DateRange{
			Start: h.config.DateRange.After,
			End:   h.config.DateRange.Before,
		},
		CollectedAt:   result.FinishedAt,
		PageSizeUsed:  result.PageSize,
		PagesFetched:  result.PagesFetched,
		RunID:         runID,
		ReportedTotal: result.ReportedTotal,
		Termination:   result.Termination,
	}
	if result.Err != nil {
		metadata.Error = result.Err.Error()
	}
	result.Snapshot = models.NewSnapshot(metadata, result.Records)

	if err := h.store.Write(h.config.OutputPath, result.Snapshot); err != nil {
		return result, common.WrapError(err, "failed to persist snapshot")
	}
	result.SnapshotPath = h.config.OutputPath

	result.Stats = DescribeRecords(result.Records, "createdAt", 10)
	logger.Info().
		Int("total_incidents", len(result.Records)).
		Int("reported_total", result.ReportedTotal).
		Int("pages_fetched", result.PagesFetched).
		Str("termination", string(result.Termination)).
		Str("earliest_created_at", result.Stats.EarliestCreatedAt).
		Str("latest_created_at", result.Stats.LatestCreatedAt).
		Strs("fields", result.Stats.FieldNames).
		Str("output", h.config.OutputPath).
		Msg("Harvest finished")

	if result.ReportedTotal > 0 && len(result.Records) < result.ReportedTotal {
		logger.Warn().
			Int("missing", result.ReportedTotal-len(result.Records)).
			Msg("Snapshot holds fewer incidents than the server reported")
	}

	return result, nil
}
