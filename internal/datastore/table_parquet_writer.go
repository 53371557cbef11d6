package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"github.com/scvsar/incidentharvest/internal/common"
	"github.com/scvsar/incidentharvest/internal/models"
)

// TableParquetWriter exports a normalized table to a Parquet file with one
// optional column per table column.
type TableParquetWriter struct {
	compression string
	logger      zerolog.Logger
}

// NewTableParquetWriter creates a writer using the given codec name
// (zstd, snappy, gzip; anything else falls back to zstd).
func NewTableParquetWriter(compression string, logger zerolog.Logger) *TableParquetWriter {
	return &TableParquetWriter{
		compression: compression,
		logger:      logger.With().Str("component", "TableParquetWriter").Logger(),
	}
}

// Write writes table to path, creating parent directories.
func (w *TableParquetWriter) Write(table *models.Table, path string) error {
	if len(table.Columns) == 0 {
		return common.NewValidationError("table", path, "table has no columns")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return common.WrapError(err, "failed to create parquet directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, "failed to create parquet file: "+path)
	}
	defer file.Close()

	schema, types := tableSchema(table)
	writer := parquet.NewWriter(file, schema, w.getCompressionOption())

	rows := make([]parquet.Row, table.Rows)
	for r := 0; r < table.Rows; r++ {
		row := make(parquet.Row, len(table.Columns))
		for c, col := range table.Columns {
			row[c] = parquetValue(col.Values[r], types[c], c)
		}
		rows[r] = row
	}

	if _, err := writer.WriteRows(rows); err != nil {
		return common.WrapError(err, "failed to write parquet rows")
	}
	if err := writer.Close(); err != nil {
		return common.WrapError(err, "failed to finalize parquet file")
	}

	w.logger.Info().
		Str("path", path).
		Int("rows", table.Rows).
		Int("columns", len(table.Columns)).
		Str("compression", w.compression).
		Msg("Table written to Parquet")
	return nil
}

// getCompressionOption returns the compression option based on configuration
func (w *TableParquetWriter) getCompressionOption() parquet.WriterOption {
	switch w.compression {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// columnType is the Parquet physical choice for one table column.
type columnType struct {
	kind models.ValueKind
	// integral number columns are stored as INT64 so identifiers stay exact.
	integral bool
}

// tableSchema builds an all-optional schema. Group fields are ordered by
// name, matching the table's column order, so column index c in the table is
// leaf index c in the schema.
func tableSchema(table *models.Table) (*parquet.Schema, []columnType) {
	group := parquet.Group{}
	types := make([]columnType, len(table.Columns))

	for i, col := range table.Columns {
		ct := columnType{kind: col.Kind(), integral: col.Integral()}
		types[i] = ct

		var node parquet.Node
		switch {
		case ct.integral:
			node = parquet.Int(64)
		case ct.kind == models.KindNumber:
			node = parquet.Leaf(parquet.DoubleType)
		case ct.kind == models.KindBool:
			node = parquet.Leaf(parquet.BooleanType)
		case ct.kind == models.KindTime:
			node = parquet.Timestamp(parquet.Millisecond)
		case ct.kind == models.KindJSON:
			node = parquet.JSON()
		default:
			node = parquet.String()
		}
		group[col.Name] = parquet.Optional(node)
	}

	return parquet.NewSchema("incidents", group), types
}

func parquetValue(v models.Value, ct columnType, columnIndex int) parquet.Value {
	if v.IsNull() {
		return parquet.NullValue().Level(0, 0, columnIndex)
	}

	var pv parquet.Value
	switch {
	case ct.integral:
		n, _ := v.Int64()
		pv = parquet.Int64Value(n)
	case ct.kind == models.KindNumber:
		pv = parquet.DoubleValue(v.Num)
	case ct.kind == models.KindBool:
		pv = parquet.BooleanValue(v.Bool)
	case ct.kind == models.KindTime:
		pv = parquet.Int64Value(v.Time.UnixMilli())
	case ct.kind == models.KindJSON:
		pv = parquet.ByteArrayValue(v.Raw)
	default:
		pv = parquet.ByteArrayValue([]byte(v.Text()))
	}
	return pv.Level(0, 1, columnIndex)
}

// ParquetRowCount returns the number of rows stored in a Parquet file.
func ParquetRowCount(path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, common.WrapError(err, "failed to open parquet file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, common.WrapError(err, "failed to stat parquet file")
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return 0, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	return pf.NumRows(), nil
}
