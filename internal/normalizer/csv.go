package normalizer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/scvsar/incidentharvest/internal/models"
)

// WriteCSV writes table with a header row; columns in table order and nulls
// as empty fields.
func WriteCSV(w io.Writer, table *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for row := 0; row < table.Rows; row++ {
		for i, col := range table.Columns {
			record[i] = col.Values[row].Text()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// EncodeCSV renders table as CSV bytes.
func EncodeCSV(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
