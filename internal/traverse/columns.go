package traverse

import (
	"strings"
	"unicode"
)

// Field is the semantic role of an input column.
type Field int

const (
	FieldUnknown Field = iota
	FieldDistance
	FieldBearing
	FieldNorthing
	FieldEasting
	FieldCode
)

func (f Field) String() string {
	switch f {
	case FieldDistance:
		return "distance"
	case FieldBearing:
		return "bearing"
	case FieldNorthing:
		return "northing"
	case FieldEasting:
		return "easting"
	case FieldCode:
		return "code"
	default:
		return "unknown"
	}
}

// synonyms maps a normalized header to its field. codeRank orders the code
// synonyms; a lower rank wins when several are present.
var synonyms = map[string]Field{
	"distance": FieldDistance,
	"dist":     FieldDistance,
	"length":   FieldDistance,
	"len":      FieldDistance,
	"d":        FieldDistance,

	"bearing": FieldBearing,
	"brg":     FieldBearing,
	"angle":   FieldBearing,
	"azimuth": FieldBearing,
	"theta":   FieldBearing,

	"n":        FieldNorthing,
	"northing": FieldNorthing,
	"north":    FieldNorthing,
	"y":        FieldNorthing,

	"e":       FieldEasting,
	"easting": FieldEasting,
	"east":    FieldEasting,
	"x":       FieldEasting,

	"code":   FieldCode,
	"name":   FieldCode,
	"id":     FieldCode,
	"pt":     FieldCode,
	"point":  FieldCode,
	"remark": FieldCode,
}

var codeRank = map[string]int{
	"code":   0,
	"name":   1,
	"id":     2,
	"pt":     3,
	"point":  4,
	"remark": 5,
}

// normalizeHeader lowercases a header and strips whitespace and underscores.
func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}
		return unicode.ToLower(r)
	}, h)
}

// columnMap records which column index serves each field.
type columnMap map[Field]int

func (m columnMap) has(fields ...Field) bool {
	for _, f := range fields {
		if _, ok := m[f]; !ok {
			return false
		}
	}
	return true
}

func (m columnMap) missing(fields ...Field) []string {
	var out []string
	for _, f := range fields {
		if _, ok := m[f]; !ok {
			out = append(out, f.String())
		}
	}
	return out
}

// resolveColumns assigns each recognised header to a field. The first column
// wins for a repeated field; for code the synonym rank decides.
func resolveColumns(columns []string) columnMap {
	m := make(columnMap)
	bestCode := len(codeRank)
	for i, c := range columns {
		key := normalizeHeader(c)
		field, ok := synonyms[key]
		if !ok {
			continue
		}
		if field == FieldCode {
			if rank := codeRank[key]; rank < bestCode {
				bestCode = rank
				m[FieldCode] = i
			}
			continue
		}
		if _, taken := m[field]; !taken {
			m[field] = i
		}
	}
	return m
}
