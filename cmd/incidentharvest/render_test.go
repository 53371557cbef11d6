package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scvsar/incidentharvest/internal/harvester"
	"github.com/scvsar/incidentharvest/internal/models"
	"github.com/scvsar/incidentharvest/internal/normalizer"
)

func TestRenderSummary_MissingStatistics(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, normalizer.Summary{TotalIncidents: 0})

	out := buf.String()
	assert.Contains(t, out, "Total incidents")
	assert.Contains(t, out, notAvailable)
}

func TestRenderProbes_MarksSelectedAndCapped(t *testing.T) {
	var buf bytes.Buffer
	renderProbes(&buf, []models.ProbeResult{
		{RequestedSize: 100, StatusCode: 200, ReturnedCount: 100, TotalCount: 1050, Working: true},
		{RequestedSize: 500, StatusCode: 200, ReturnedCount: 100, TotalCount: 1050, Working: true},
		{RequestedSize: 1000, StatusCode: 400, Error: "HTTP 400"},
	}, 100)

	out := buf.String()
	assert.Contains(t, out, "selected")
	assert.Contains(t, out, "capped by server")
	assert.Contains(t, out, "HTTP 400")
}

func TestRunRecord(t *testing.T) {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(time.Minute)

	complete := runRecord("r1", started, &harvester.HarvestResult{
		PageSize:     500,
		PagesFetched: 3,
		Records:      nil,
		Termination:  models.TerminationShortPage,
		SnapshotPath: "incidents.json",
		FinishedAt:   finished,
	}, nil)
	assert.Equal(t, models.RunStatusCompleted, complete.Status)
	assert.Equal(t, finished, complete.FinishedAt)
	assert.Empty(t, complete.Error)

	partial := runRecord("r2", started, &harvester.HarvestResult{
		Termination: models.TerminationFatalError,
		Err:         errors.New("HTTP 500"),
	}, nil)
	assert.Equal(t, models.RunStatusPartial, partial.Status)
	assert.Equal(t, "HTTP 500", partial.Error)

	bounded := runRecord("r3", started, &harvester.HarvestResult{Termination: models.TerminationPageBound}, nil)
	assert.Equal(t, models.RunStatusPartial, bounded.Status)

	failed := runRecord("r4", started, &harvester.HarvestResult{}, harvester.ErrNoViablePageSize)
	assert.Equal(t, models.RunStatusFailed, failed.Status)
	assert.Equal(t, harvester.ErrNoViablePageSize.Error(), failed.Error)
}
