package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"traverse-api/internal/models"
)

// ErrNoGeometry is returned when a DXF file holds no usable vertices.
var ErrNoGeometry = errors.New("reader: no point geometry in DXF")

type dxfVertex struct {
	layer string
	e, n  float64
}

// dxfEntity accumulates the group codes of one entity.
type dxfEntity struct {
	kind     string
	layer    string
	vertices []dxfVertex
	pendingX *float64
	endX     *float64
	end      *dxfVertex
}

// ReadDXF extracts the vertices of POINT, LINE, LWPOLYLINE and POLYLINE
// entities from an ASCII DXF file, in drawing order, as a coordinate table.
// Codes are the layer name followed by a per-layer sequence number; layer "0"
// maps to "PT".
func ReadDXF(r io.Reader) (models.Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		line      int
		section   string
		expectSec bool
		polyLayer string
		cur       *dxfEntity
		points    []dxfVertex
	)

	flush := func() {
		if cur == nil {
			return
		}
		vs := cur.vertices
		if cur.end != nil {
			vs = append(vs, *cur.end)
		}
		for _, v := range vs {
			if n := len(points); n > 0 && points[n-1].e == v.e && points[n-1].n == v.n {
				continue
			}
			points = append(points, v)
		}
		cur = nil
	}

	for sc.Scan() {
		line++
		codeStr := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			return models.Table{}, fmt.Errorf("reader: truncated DXF at line %d", line)
		}
		line++
		value := strings.TrimSpace(sc.Text())

		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return models.Table{}, fmt.Errorf("reader: invalid DXF group code %q at line %d", codeStr, line-1)
		}

		if code == 0 {
			flush()
			switch value {
			case "SECTION":
				expectSec = true
			case "ENDSEC":
				section = ""
			case "POINT", "LINE", "LWPOLYLINE", "VERTEX":
				if section == "ENTITIES" {
					cur = &dxfEntity{kind: value, layer: polyLayer}
				}
			case "POLYLINE":
				if section == "ENTITIES" {
					cur = &dxfEntity{kind: value}
				}
			case "SEQEND":
				polyLayer = ""
			}
			continue
		}
		if expectSec && code == 2 {
			section = value
			expectSec = false
			continue
		}
		if cur == nil {
			continue
		}

		switch code {
		case 8:
			cur.layer = value
			if cur.kind == "POLYLINE" {
				polyLayer = value
			}
		case 10, 20, 11, 21:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return models.Table{}, fmt.Errorf("reader: invalid DXF coordinate %q at line %d", value, line)
			}
			cur.coord(code, f)
		}
	}
	if err := sc.Err(); err != nil {
		return models.Table{}, fmt.Errorf("reader: failed to scan DXF: %w", err)
	}
	flush()

	if len(points) == 0 {
		return models.Table{}, ErrNoGeometry
	}

	table := models.Table{Columns: []string{"code", "easting", "northing"}}
	seq := make(map[string]int)
	for _, p := range points {
		prefix := p.layer
		if prefix == "" || prefix == "0" {
			prefix = "PT"
		}
		seq[prefix]++
		table.Rows = append(table.Rows, []string{
			prefix + strconv.Itoa(seq[prefix]),
			strconv.FormatFloat(p.e, 'f', -1, 64),
			strconv.FormatFloat(p.n, 'f', -1, 64),
		})
	}

	return table, nil
}

func (d *dxfEntity) coord(code int, f float64) {
	if d.kind == "POLYLINE" {
		// The POLYLINE header's own 10/20 is a dummy elevation point.
		return
	}
	switch code {
	case 10:
		d.pendingX = &f
	case 20:
		if d.pendingX != nil {
			d.vertices = append(d.vertices, dxfVertex{layer: d.layer, e: *d.pendingX, n: f})
			d.pendingX = nil
		}
	case 11:
		if d.kind == "LINE" {
			d.endX = &f
		}
	case 21:
		if d.kind == "LINE" && d.endX != nil {
			d.end = &dxfVertex{layer: d.layer, e: *d.endX, n: f}
			d.endX = nil
		}
	}
}
