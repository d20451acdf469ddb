package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"traverse-api/internal/models"
)

// WriteCSV writes one row per leg with every audit column.
func WriteCSV(w io.Writer, t *models.Traverse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(auditHeader); err != nil {
		return err
	}
	for _, leg := range t.Legs {
		record := make([]string, 0, len(auditHeader))
		record = append(record, leg.Code, leg.Group)
		for _, v := range auditValues(leg) {
			record = append(record, strconv.FormatFloat(v, 'f', 4, 64))
		}
		record = append(record, strconv.FormatBool(leg.Closing))
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
