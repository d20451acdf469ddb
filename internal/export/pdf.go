package export

import (
	"fmt"
	"io"

	"traverse-api/internal/models"

	"github.com/go-pdf/fpdf"
)

var workingsColumns = []struct {
	title string
	width float64
}{
	{"Code", 22},
	{"Dist", 24},
	{"Bearing", 24},
	{"Lat (dN)", 28},
	{"Dep (dE)", 28},
	{"Corr N", 26},
	{"Corr E", 26},
	{"Final N", 34},
	{"Final E", 34},
}

// WritePDF writes the audit report: a closure summary followed by the
// Bowditch workings table.
func WritePDF(w io.Writer, t *models.Traverse) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetTitle("Survey Back-Computation Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Survey Back-Computation Report", "", 1, "L", false, 0, "")
	if t.Name != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, t.Name, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	summary := [][2]string{
		{"Start (E, N):", fmt.Sprintf("%.3f, %.3f", t.Start.Easting, t.Start.Northing)},
		{"Total Length:", fmt.Sprintf("%.3f m", t.TotalDistance)},
		{"Misclosure North:", fmt.Sprintf("%.4f m", t.Misclosure.North)},
		{"Misclosure East:", fmt.Sprintf("%.4f m", t.Misclosure.East)},
		{"Linear Misclosure:", fmt.Sprintf("%.4f m", t.LinearMisclosure())},
		{"Precision Ratio:", PrecisionLabel(&t.Adjustment)},
	}
	for _, row := range summary {
		pdf.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Detailed Adjustment Workings (Bowditch Rule)", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for _, c := range workingsColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, leg := range t.Legs {
		cells := []string{
			leg.Code,
			fmt.Sprintf("%.2f", leg.Distance),
			fmt.Sprintf("%.2f", leg.Bearing),
			fmt.Sprintf("%.3f", leg.Latitude),
			fmt.Sprintf("%.3f", leg.Departure),
			fmt.Sprintf("%.4f", leg.CorrectionLat),
			fmt.Sprintf("%.4f", leg.CorrectionDep),
			fmt.Sprintf("%.3f", leg.FinalNorthing),
			fmt.Sprintf("%.3f", leg.FinalEasting),
		}
		for i, c := range workingsColumns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
