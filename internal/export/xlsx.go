package export

import (
	"io"

	"traverse-api/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	traverseSheet = "Adjusted Traverse"
	summarySheet  = "Summary"
)

// WriteXLSX writes a workbook with the audit table and a summary sheet.
func WriteXLSX(w io.Writer, t *models.Traverse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), traverseSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(auditHeader))
	for i, h := range auditHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(traverseSheet, "A1", &header); err != nil {
		return err
	}

	for i, leg := range t.Legs {
		row := []interface{}{leg.Code, leg.Group}
		for _, v := range auditValues(leg) {
			row = append(row, v)
		}
		row = append(row, leg.Closing)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(traverseSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Name", t.Name},
		{"Start Easting", t.Start.Easting},
		{"Start Northing", t.Start.Northing},
		{"Close Loop", t.CloseLoop},
		{"Total Distance", t.TotalDistance},
		{"Misclosure North", t.Misclosure.North},
		{"Misclosure East", t.Misclosure.East},
		{"Linear Misclosure", t.LinearMisclosure()},
		{"Precision", PrecisionLabel(&t.Adjustment)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
