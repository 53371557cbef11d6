package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/datastore"
	"github.com/scvsar/incidentharvest/internal/harvester"
	"github.com/scvsar/incidentharvest/internal/httpclient"
	"github.com/scvsar/incidentharvest/internal/models"
	"github.com/scvsar/incidentharvest/internal/notifier"
)

var (
	harvestCredentialsPath string
	harvestOutputPath      string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [--credentials <file>] [--output <incidents.json>]",
	Short: "Probes page sizes and downloads every incident into a JSON snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.applyHarvestFlags()
		creds, err := current.loadOrCaptureCredentials(cmd.Context(), current.config.StorageConfig.CredentialsPath)
		if err != nil {
			return err
		}
		_, err = current.harvest(cmd.Context(), creds)
		return err
	},
}

func init() {
	addHarvestFlags(harvestCmd)
	rootCmd.AddCommand(harvestCmd)
}

func addHarvestFlags(cmd *cobra.Command) {
	addHTTPFlags(cmd)
	cmd.Flags().StringVar(&harvestCredentialsPath, "credentials", "", "Reuse credentials saved by the capture command. Defaults to storage_config.credentials_path.")
	cmd.Flags().StringVarP(&harvestOutputPath, "output", "o", "", "Snapshot path. Defaults to harvest_config.output_path.")
}

func (a *app) applyHarvestFlags() {
	if harvestCredentialsPath != "" {
		a.config.StorageConfig.CredentialsPath = harvestCredentialsPath
	}
	if harvestOutputPath != "" {
		a.config.HarvestConfig.OutputPath = harvestOutputPath
	}
}

// harvest runs one harvest with creds, records it in the run history and
// sends the optional notification. A collection failure still yields a
// snapshot but is reported as an error so the exit status is non-zero.
func (a *app) harvest(ctx context.Context, creds *capture.Credentials) (*harvester.HarvestResult, error) {
	defer common.LogResourceUsage(a.logger, "harvest")

	client, err := buildHTTPClient(a.config.HTTPClientConfig, httpFlags, a.logger)
	if err != nil {
		return nil, err
	}

	history, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	if history != nil {
		defer history.Close()
	}

	startedAt := time.Now().UTC()
	var historyID int64
	if history != nil {
		if historyID, err = history.RecordRunStart(a.runID, startedAt); err != nil {
			a.logger.Warn().Err(err).Msg("Could not record run start")
			history = nil
		}
	}

	api := harvester.NewAPIClient(client, a.config.HarvestConfig, creds, a.logger)
	h := harvester.NewHarvester(a.config.HarvestConfig, api, datastore.NewSnapshotStore(a.logger), a.logger)
	result, runErr := h.Run(ctx, a.runID)

	if result != nil && len(result.Probes) > 0 {
		renderProbes(os.Stdout, result.Probes, result.PageSize)
	}

	record := runRecord(a.runID, startedAt, result, runErr)
	if history != nil {
		record.ID = historyID
		if err := history.UpdateRunCompletion(record); err != nil {
			a.logger.Warn().Err(err).Msg("Could not record run completion")
		}
	}
	a.notify(ctx, client, record)

	if runErr != nil {
		return result, runErr
	}
	renderHarvest(os.Stdout, result)
	if result.Err != nil {
		return result, fmt.Errorf("harvest stopped after %d pages, partial snapshot written to %s: %w",
			result.PagesFetched, result.SnapshotPath, result.Err)
	}
	return result, nil
}

func (a *app) openHistory() (*datastore.RunHistory, error) {
	path := a.config.StorageConfig.HistoryDBPath
	if path == "" {
		return nil, nil
	}
	return datastore.NewRunHistory(path, a.logger)
}

func (a *app) notify(ctx context.Context, client *httpclient.HTTPClient, record models.RunRecord) {
	dn := notifier.NewDiscordNotifier(a.config.NotificationConfig, client, a.logger)
	summary := notifier.RunSummary{
		RunID:          record.RunID,
		Status:         record.Status,
		Termination:    record.Termination,
		TotalIncidents: record.TotalIncidents,
		ReportedTotal:  record.ReportedTotal,
		PageSize:       record.PageSize,
		PagesFetched:   record.PagesFetched,
		SnapshotPath:   record.SnapshotPath,
		StartedAt:      record.StartedAt,
		FinishedAt:     record.FinishedAt,
		Error:          record.Error,
	}
	if err := dn.NotifyRun(ctx, summary); err != nil {
		a.logger.Warn().Err(err).Msg("Run notification failed")
	}
}

// runRecord turns the outcome of Harvester.Run into a history row.
func runRecord(runID string, startedAt time.Time, result *harvester.HarvestResult, runErr error) models.RunRecord {
	record := models.RunRecord{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Status:     models.RunStatusFailed,
	}
	if result != nil {
		record.PageSize = result.PageSize
		record.PagesFetched = result.PagesFetched
		record.TotalIncidents = len(result.Records)
		record.ReportedTotal = result.ReportedTotal
		record.Termination = result.Termination
		record.SnapshotPath = result.SnapshotPath
		if !result.FinishedAt.IsZero() {
			record.FinishedAt = result.FinishedAt
		}
	}

	switch {
	case runErr != nil:
		record.Error = runErr.Error()
	case result.Err != nil:
		record.Status = models.RunStatusPartial
		record.Error = result.Err.Error()
	default:
		record.Status = models.StatusForTermination(result.Termination)
	}
	return record
}
