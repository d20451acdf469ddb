package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"traverse-api/internal/models"
)

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (models.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Allow ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.Table{}, fmt.Errorf("reader: empty CSV file")
		}
		return models.Table{}, fmt.Errorf("reader: failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := models.Table{Columns: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Table{}, fmt.Errorf("reader: failed to read record: %w", err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
