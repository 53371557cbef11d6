package normalizer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/datastore"
	"github.com/scvsar/incidentharvest/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleIncidents = []json.RawMessage{
	json.RawMessage(`{"id":1,"startsAt":"2023-06-01T10:00:00.000Z","createdAt":"2023-06-01T09:00:00.000Z","countAttendance":4,"description":"<p>Hello <b>World</b></p>","location":{"coordinates":[12.5,-3.25]},"address":{"town":"Stevenson","region":"WA"}}`),
	json.RawMessage(`{"id":2,"startsAt":"2021-02-10T00:00:00.000Z","countAttendance":"10","description":"Plain","location":{"coordinates":[1]},"address":{"town":"Carson","region":"WA"}}`),
	json.RawMessage(`{"id":3,"startsAt":"garbage","countAttendance":"n/a","address":{"town":"Stevenson"},"distance":2.5}`),
}

func newTestPipeline() *Pipeline {
	return NewPipeline(config.NewDefaultNormalizeConfig(), zerolog.Nop())
}

func cell(t *testing.T, table *models.Table, column string, row int) models.Value {
	t.Helper()
	col, ok := table.Column(column)
	require.True(t, ok, "column %s missing", column)
	return col.Values[row]
}

func TestPipeline_Process(t *testing.T) {
	table := newTestPipeline().Process(sampleIncidents)
	require.Equal(t, 3, table.Rows)

	assert.Equal(t, models.NumberValue(12.5), cell(t, table, LatitudeColumn, 0))
	assert.Equal(t, models.NumberValue(-3.25), cell(t, table, LongitudeColumn, 0))
	assert.True(t, cell(t, table, LatitudeColumn, 1).IsNull())
	assert.True(t, cell(t, table, LongitudeColumn, 1).IsNull())
	assert.True(t, cell(t, table, LatitudeColumn, 2).IsNull())
	assert.True(t, cell(t, table, LongitudeColumn, 2).IsNull())

	assert.Equal(t, models.StringValue("Hello World"), cell(t, table, "description", 0))
	assert.True(t, cell(t, table, "description", 2).IsNull())

	assert.Equal(t, models.KindTime, cell(t, table, "startsAt", 0).Kind)
	assert.True(t, cell(t, table, "startsAt", 2).IsNull())
	assert.True(t, cell(t, table, "createdAt", 1).IsNull(), "absent field must be null")

	assert.Equal(t, models.NumberValue(10), cell(t, table, "countAttendance", 1))
	assert.True(t, cell(t, table, "countAttendance", 2).IsNull())
	assert.True(t, cell(t, table, "address.region", 2).IsNull())
}

func TestPipeline_CleanDoesNotModifyInput(t *testing.T) {
	p := newTestPipeline()
	raw := p.BuildTable(sampleIncidents)

	_ = p.Clean(raw)

	assert.Equal(t, models.StringValue("<p>Hello <b>World</b></p>"), cell(t, raw, "description", 0))
	_, ok := raw.Column(LatitudeColumn)
	assert.False(t, ok)
}

func TestPipeline_MalformedRecordBecomesNullRow(t *testing.T) {
	table := newTestPipeline().Process([]json.RawMessage{
		json.RawMessage(`{"id":1}`),
		json.RawMessage(`[1,2,3]`),
	})
	require.Equal(t, 2, table.Rows)
	assert.True(t, cell(t, table, "id", 1).IsNull())
}

func TestPipeline_Summary(t *testing.T) {
	p := newTestPipeline()
	summary := p.Summarize(p.Process(sampleIncidents))

	assert.Equal(t, 3, summary.TotalIncidents)
	require.NotNil(t, summary.DateRange.Earliest)
	require.NotNil(t, summary.DateRange.Latest)
	assert.True(t, summary.DateRange.Earliest.Equal(time.Date(2021, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, summary.DateRange.Latest.Equal(time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)))

	require.NotNil(t, summary.AttendanceStats.Mean)
	assert.InDelta(t, 7.0, *summary.AttendanceStats.Mean, 1e-9)
	assert.InDelta(t, 7.0, *summary.AttendanceStats.Median, 1e-9)
	assert.InDelta(t, 10.0, *summary.AttendanceStats.Max, 1e-9)

	require.NotNil(t, summary.LocationCoverage.UniqueTowns)
	assert.Equal(t, 2, *summary.LocationCoverage.UniqueTowns)
	assert.Equal(t, 1, *summary.LocationCoverage.UniqueRegions)
}

func TestPipeline_EmptyList(t *testing.T) {
	p := newTestPipeline()
	table := p.Process([]json.RawMessage{})
	summary := p.Summarize(table)

	assert.Equal(t, 0, table.Rows)
	assert.Equal(t, Summary{TotalIncidents: 0}, summary)
}

func TestPipeline_SummaryMissingColumns(t *testing.T) {
	p := newTestPipeline()
	summary := p.Summarize(p.Process([]json.RawMessage{json.RawMessage(`{"id":1}`)}))

	assert.Equal(t, 1, summary.TotalIncidents)
	assert.Nil(t, summary.DateRange.Earliest)
	assert.Nil(t, summary.AttendanceStats.Mean)
	assert.Nil(t, summary.LocationCoverage.UniqueTowns)
	assert.Nil(t, summary.LocationCoverage.UniqueRegions)
}

func writeSnapshot(t *testing.T, incidents []json.RawMessage) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incidents.json")
	snapshot := models.NewSnapshot(models.SnapshotMetadata{PageSizeUsed: 100, PagesFetched: 1}, incidents)
	require.NoError(t, datastore.NewSnapshotStore(zerolog.Nop()).Write(path, snapshot))
	return path
}

func TestPipeline_LoadAndProcessIsIdempotent(t *testing.T) {
	path := writeSnapshot(t, sampleIncidents)
	p := newTestPipeline()

	first, err := p.LoadAndProcess(path)
	require.NoError(t, err)
	second, err := p.LoadAndProcess(path)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("tables differ between runs (-first +second):\n%s", diff)
	}

	firstCSV, err := EncodeCSV(first)
	require.NoError(t, err)
	secondCSV, err := EncodeCSV(second)
	require.NoError(t, err)
	assert.Equal(t, firstCSV, secondCSV)
}

func TestPipeline_LargeIdentifiersSurviveExport(t *testing.T) {
	table := newTestPipeline().Process([]json.RawMessage{
		json.RawMessage(`{"id":9007199254740993,"ownerId":1234567890123456789,"countAttendance":4}`),
	})

	data, err := EncodeCSV(table)
	require.NoError(t, err)
	assert.Equal(t, "countAttendance,id,latitude,longitude,ownerId\n4,9007199254740993,,,1234567890123456789\n", string(data))
	assert.Equal(t, models.NumberValue(4), cell(t, table, "countAttendance", 0))
}

func TestPipeline_LoadAndProcessMissingFile(t *testing.T) {
	_, err := newTestPipeline().LoadAndProcess(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPipeline_LoadSnapshotWithoutIncidents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata":{}}`), 0644))

	_, err := newTestPipeline().LoadSnapshot(path)
	assert.Error(t, err)
}
