package reader

import (
	"fmt"
	"io"
	"strings"

	"traverse-api/internal/models"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet. The first non-blank row is the header.
func ReadXLSX(r io.Reader) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("reader: failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, fmt.Errorf("reader: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Table{}, fmt.Errorf("reader: failed to read sheet %q: %w", sheets[0], err)
	}

	var table models.Table
	for _, row := range rows {
		if table.Columns == nil {
			if blank(row) {
				continue
			}
			table.Columns = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Columns == nil {
		return models.Table{}, fmt.Errorf("reader: sheet %q is empty", sheets[0])
	}

	return table, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
