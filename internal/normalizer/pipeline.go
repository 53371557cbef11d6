package normalizer

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/config"
	"github.com/scvsar/incidentharvest/internal/datastore"
	"github.com/scvsar/incidentharvest/internal/models"
)

// Pipeline turns harvest snapshots into normalized tables. Each stage can be
// called on its own.
type Pipeline struct {
	config config.NormalizeConfig
	store  *datastore.SnapshotStore
	logger zerolog.Logger
}

// NewPipeline creates a normalization pipeline
func NewPipeline(cfg config.NormalizeConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		config: cfg,
		store:  datastore.NewSnapshotStore(logger),
		logger: logger.With().Str("component", "Normalizer").Logger(),
	}
}

// LoadSnapshot reads a snapshot file.
func (p *Pipeline) LoadSnapshot(path string) (*models.Snapshot, error) {
	snapshot, err := p.store.Read(path)
	if err != nil {
		return nil, common.WrapError(err, "failed to load incidents")
	}
	return snapshot, nil
}

// ExtractIncidents returns the raw records of a snapshot.
func ExtractIncidents(snapshot *models.Snapshot) []json.RawMessage {
	if snapshot == nil {
		return nil
	}
	return snapshot.Incidents
}

// BuildTable flattens records into one row each. A record that is not a JSON
// object becomes an all-null row.
func (p *Pipeline) BuildTable(records []json.RawMessage) *models.Table {
	table := models.NewTable(len(records))

	for row, raw := range records {
		cells, conflicts, err := flattenRecord(raw)
		if err != nil {
			p.logger.Warn().Err(err).Int("row", row).Msg("Skipping fields of malformed record")
			continue
		}
		if len(conflicts) > 0 {
			p.logger.Warn().
				Int("row", row).
				Strs("columns", conflicts).
				Msg("Dotted keys collide with nested fields; keeping the nested values")
		}
		for name, value := range cells {
			table.EnsureColumn(name).Values[row] = value
		}
	}

	p.logger.Debug().Int("rows", table.Rows).Int("columns", len(table.Columns)).Msg("Records flattened")
	return table
}

// Clean returns a copy of table with the configured columns coerced and
// latitude/longitude derived. The input table is not modified.
func (p *Pipeline) Clean(table *models.Table) *models.Table {
	out := models.NewTable(table.Rows)
	out.Columns = make([]*models.Column, len(table.Columns))
	for i, col := range table.Columns {
		values := make([]models.Value, len(col.Values))
		copy(values, col.Values)
		out.Columns[i] = &models.Column{Name: col.Name, Values: values}
	}

	for _, name := range p.config.DateColumns {
		p.apply(out, name, CoerceTime)
	}

	if p.config.CoordinateColumn != "" {
		lat := out.EnsureColumn(LatitudeColumn)
		lon := out.EnsureColumn(LongitudeColumn)
		if coords, ok := out.Column(p.config.CoordinateColumn); ok {
			for i, v := range coords.Values {
				lat.Values[i], lon.Values[i] = DecodeCoordinates(v)
			}
		}
	}

	for _, name := range p.config.NumericColumns {
		p.apply(out, name, CoerceNumber)
	}
	for _, name := range p.config.TextColumns {
		p.apply(out, name, CleanText)
	}

	return out
}

func (p *Pipeline) apply(table *models.Table, name string, coerce func(models.Value) models.Value) {
	col, ok := table.Column(name)
	if !ok {
		return
	}

	nulled := 0
	for i, v := range col.Values {
		col.Values[i] = coerce(v)
		if !v.IsNull() && col.Values[i].IsNull() {
			nulled++
		}
	}
	if nulled > 0 {
		p.logger.Debug().Str("column", name).Int("nulled", nulled).Msg("Unparseable values set to null")
	}
}

// Process flattens and cleans an already loaded record list.
func (p *Pipeline) Process(records []json.RawMessage) *models.Table {
	return p.Clean(p.BuildTable(records))
}

// LoadAndProcess runs the whole pipeline on a snapshot file.
func (p *Pipeline) LoadAndProcess(path string) (*models.Table, error) {
	snapshot, err := p.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	table := p.Process(ExtractIncidents(snapshot))

	p.logger.Info().
		Str("path", path).
		Int("rows", table.Rows).
		Int("columns", len(table.Columns)).
		Msg("Incidents normalized")
	return table, nil
}

// Summarize computes statistics over a cleaned table.
func (p *Pipeline) Summarize(table *models.Table) Summary {
	return Summarize(table, p.config)
}
