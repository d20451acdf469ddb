package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"traverse-api/internal/models"
)

// labelHeight is the TEXT height used for point labels, in drawing units.
const labelHeight = 0.5

type dxfWriter struct {
	w   *bufio.Writer
	err error
}

func (d *dxfWriter) pair(code int, value string) {
	if d.err != nil {
		return
	}
	_, d.err = d.w.WriteString(strconv.Itoa(code) + "\n" + value + "\n")
}

func (d *dxfWriter) num(code int, v float64) {
	d.pair(code, strconv.FormatFloat(v, 'f', 6, 64))
}

// WriteDXF writes an R12 ASCII drawing: one layer per feature group holding a
// polyline through the group's final coordinates and a label per point.
func WriteDXF(w io.Writer, t *models.Traverse) error {
	d := &dxfWriter{w: bufio.NewWriter(w)}
	groups := t.Groups()

	d.pair(0, "SECTION")
	d.pair(2, "HEADER")
	d.pair(9, "$ACADVER")
	d.pair(1, "AC1009")
	d.pair(0, "ENDSEC")

	d.pair(0, "SECTION")
	d.pair(2, "TABLES")
	d.pair(0, "TABLE")
	d.pair(2, "LAYER")
	d.pair(70, strconv.Itoa(len(groups)))
	for i, g := range groups {
		d.pair(0, "LAYER")
		d.pair(2, layerName(g.Name))
		d.pair(70, "0")
		d.pair(62, strconv.Itoa(i%7+1))
		d.pair(6, "CONTINUOUS")
	}
	d.pair(0, "ENDTAB")
	d.pair(0, "ENDSEC")

	d.pair(0, "SECTION")
	d.pair(2, "ENTITIES")
	for _, g := range groups {
		layer := layerName(g.Name)

		d.pair(0, "POLYLINE")
		d.pair(8, layer)
		d.pair(66, "1")
		d.pair(70, "0")
		d.num(10, 0)
		d.num(20, 0)
		d.num(30, 0)
		for _, leg := range g.Legs {
			d.pair(0, "VERTEX")
			d.pair(8, layer)
			d.num(10, leg.FinalEasting)
			d.num(20, leg.FinalNorthing)
			d.num(30, 0)
		}
		d.pair(0, "SEQEND")
		d.pair(8, layer)

		for _, leg := range g.Legs {
			d.pair(0, "TEXT")
			d.pair(8, layer)
			d.num(10, leg.FinalEasting)
			d.num(20, leg.FinalNorthing)
			d.num(30, 0)
			d.num(40, labelHeight)
			d.pair(1, leg.Code)
		}
	}
	d.pair(0, "ENDSEC")
	d.pair(0, "EOF")

	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

// layerName replaces characters DXF forbids in layer names.
func layerName(group string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>/\":;?*|=,'`, r) || r < ' ' {
			return '_'
		}
		return r
	}, group)
	if name == "" {
		return "PT"
	}
	return name
}
