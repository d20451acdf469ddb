// Package export renders adjusted traverses into downloadable formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"traverse-api/internal/models"
)

// Format names an export target.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatDXF     Format = "dxf"
	FormatGeoJSON Format = "geojson"
	FormatPDF     Format = "pdf"
)

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatCSV, FormatXLSX, FormatDXF, FormatGeoJSON, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDXF:
		return "application/dxf"
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// FileName returns a download name for a traverse in this format.
func (f Format) FileName(t *models.Traverse) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, t.Name)
	if base == "" {
		base = "traverse_" + t.ID.String()[:8]
	}
	return base + "." + string(f)
}

// Write renders t in the given format.
func Write(f Format, w io.Writer, t *models.Traverse) error {
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(w, t)
	case FormatXLSX:
		err = WriteXLSX(w, t)
	case FormatDXF:
		err = WriteDXF(w, t)
	case FormatGeoJSON:
		err = WriteGeoJSON(w, t)
	case FormatPDF:
		err = WritePDF(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("export: failed to write %s: %w", f, err)
	}
	return nil
}

// PrecisionLabel formats the precision ratio the way survey reports print it.
func PrecisionLabel(a *models.Adjustment) string {
	if a.Check() != nil {
		return "n/a"
	}
	ratio, perfect := a.PrecisionRatio()
	if perfect {
		return "1 : perfect"
	}
	return fmt.Sprintf("1 : %d", int64(ratio))
}

var auditHeader = []string{
	"code", "group", "distance", "bearing",
	"latitude", "departure", "correction_lat", "correction_dep",
	"adjusted_lat", "adjusted_dep", "prev_northing", "prev_easting",
	"final_northing", "final_easting", "closing",
}

func auditValues(l models.Leg) []float64 {
	return []float64{
		l.Distance, l.Bearing,
		l.Latitude, l.Departure, l.CorrectionLat, l.CorrectionDep,
		l.AdjustedLat, l.AdjustedDep, l.PrevNorthing, l.PrevEasting,
		l.FinalNorthing, l.FinalEasting,
	}
}
