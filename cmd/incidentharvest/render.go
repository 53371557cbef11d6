package main

import (
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/scvsar/incidentharvest/internal/capture"
	"github.com/scvsar/incidentharvest/internal/harvester"
	"github.com/scvsar/incidentharvest/internal/models"
	"github.com/scvsar/incidentharvest/internal/normalizer"
)

const notAvailable = "n/a"

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// renderCredentials lists what was captured without printing secret values.
func renderCredentials(w io.Writer, creds *capture.Credentials) {
	t := newTable(w, "Captured credentials")
	t.AppendHeader(table.Row{"Header"})
	for _, name := range creds.HeaderNames() {
		t.AppendRow(table.Row{name})
	}
	t.AppendFooter(table.Row{creds.SourceURL})
	t.Render()
}

func renderProbes(w io.Writer, probes []models.ProbeResult, chosen int) {
	t := newTable(w, "Page size probe")
	t.AppendHeader(table.Row{"Size", "Status", "Returned", "Total", "Working", "Note"})
	for i := range probes {
		p := &probes[i]
		note := p.Error
		switch {
		case p.RequestedSize == chosen:
			note = "selected"
		case p.Capped():
			note = "capped by server"
		}
		t.AppendRow(table.Row{p.RequestedSize, statusText(p.StatusCode), p.ReturnedCount, p.TotalCount, yesNo(p.Working), note})
	}
	t.Render()
}

func renderHarvest(w io.Writer, result *harvester.HarvestResult) {
	t := newTable(w, "Harvest")
	t.AppendRows([]table.Row{
		{"Run", result.RunID},
		{"Incidents", len(result.Records)},
		{"Reported total", result.ReportedTotal},
		{"Page size", result.PageSize},
		{"Pages fetched", result.PagesFetched},
		{"Stopped because", string(result.Termination)},
		{"Snapshot", result.SnapshotPath},
		{"Earliest createdAt", orNA(result.Stats.EarliestCreatedAt)},
		{"Latest createdAt", orNA(result.Stats.LatestCreatedAt)},
	})
	t.Render()
}

func renderSummary(w io.Writer, summary normalizer.Summary) {
	t := newTable(w, "Incident summary")
	t.AppendRows([]table.Row{
		{"Total incidents", summary.TotalIncidents},
		{"Earliest start", timeText(summary.DateRange.Earliest)},
		{"Latest start", timeText(summary.DateRange.Latest)},
		{"Mean attendance", floatText(summary.AttendanceStats.Mean)},
		{"Median attendance", floatText(summary.AttendanceStats.Median)},
		{"Max attendance", floatText(summary.AttendanceStats.Max)},
		{"Unique towns", intText(summary.LocationCoverage.UniqueTowns)},
		{"Unique regions", intText(summary.LocationCoverage.UniqueRegions)},
	})
	t.Render()
}

func renderHistory(w io.Writer, runs []models.RunRecord) {
	t := newTable(w, "Harvest runs")
	t.AppendHeader(table.Row{"Started", "Run", "Status", "Incidents", "Pages", "Stopped because", "Snapshot"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.StartedAt.Local().Format(time.DateTime),
			r.RunID,
			string(r.Status),
			r.TotalIncidents,
			r.PagesFetched,
			orNA(string(r.Termination)),
			orNA(r.SnapshotPath),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Runs", len(runs)})
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func statusText(code int) string {
	if code == 0 {
		return "-"
	}
	return strconv.Itoa(code)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func timeText(t *time.Time) string {
	if t == nil {
		return notAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

func floatText(f *float64) string {
	if f == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func intText(i *int) string {
	if i == nil {
		return notAvailable
	}
	return strconv.Itoa(*i)
}
