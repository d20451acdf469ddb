// Package traverse implements the traverse adjustment engine: leg
// normalization from loosely structured tables and the Bowditch
// (compass rule) adjustment.
package traverse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"traverse-api/internal/models"
)

// MissingColumnsError is returned when a table resolves to neither the
// observation (distance, bearing) nor the coordinate (northing, easting) layout.
type MissingColumnsError struct {
	Observation []string `json:"observation"`
	Coordinate  []string `json:"coordinate"`
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: need distance and bearing (missing %s) or northing and easting (missing %s)",
		strings.Join(e.Observation, ", "), strings.Join(e.Coordinate, ", "))
}

// Normalized is the canonical leg sequence produced from a table.
type Normalized struct {
	Legs []models.Leg
	// CoordinateDerived is true when distance and bearing were back-calculated
	// from consecutive coordinate rows.
	CoordinateDerived bool
}

// Normalize resolves the table's columns and builds one leg per observation.
func Normalize(table models.Table) (*Normalized, error) {
	cols := resolveColumns(table.Columns)

	switch {
	case cols.has(FieldDistance, FieldBearing):
		return &Normalized{Legs: observationLegs(table.Rows, cols)}, nil
	case cols.has(FieldNorthing, FieldEasting):
		return &Normalized{Legs: coordinateLegs(table.Rows, cols), CoordinateDerived: true}, nil
	default:
		return nil, &MissingColumnsError{
			Observation: cols.missing(FieldDistance, FieldBearing),
			Coordinate:  cols.missing(FieldNorthing, FieldEasting),
		}
	}
}

func observationLegs(rows [][]string, cols columnMap) []models.Leg {
	legs := make([]models.Leg, 0, len(rows))
	for i, row := range rows {
		distance := number(row, cols, FieldDistance)
		bearing := number(row, cols, FieldBearing)
		legs = append(legs, NewLeg(code(row, cols, i), distance, bearing))
	}
	return legs
}

func coordinateLegs(rows [][]string, cols columnMap) []models.Leg {
	if len(rows) < 2 {
		return []models.Leg{}
	}
	legs := make([]models.Leg, 0, len(rows)-1)
	prevN := number(rows[0], cols, FieldNorthing)
	prevE := number(rows[0], cols, FieldEasting)
	for i := 1; i < len(rows); i++ {
		n := number(rows[i], cols, FieldNorthing)
		e := number(rows[i], cols, FieldEasting)
		distance, bearing := Inverse(n-prevN, e-prevE)
		legs = append(legs, NewLeg(code(rows[i], cols, i), distance, bearing))
		prevN, prevE = n, e
	}
	return legs
}

// NewLeg builds a leg with its raw latitude and departure filled in.
func NewLeg(code string, distance, bearing float64) models.Leg {
	lat, dep := LatDep(distance, bearing)
	return models.Leg{
		Code:      code,
		Group:     Group(code),
		Distance:  distance,
		Bearing:   bearing,
		Latitude:  lat,
		Departure: dep,
	}
}

// LatDep returns the northward and eastward components of a leg. Bearings are
// azimuths clockwise from North, so cosine pairs with North and sine with East.
func LatDep(distance, bearing float64) (lat, dep float64) {
	rad := bearing * math.Pi / 180
	return distance * math.Cos(rad), distance * math.Sin(rad)
}

// Inverse returns the distance and azimuth (degrees in [0, 360)) of a displacement.
func Inverse(dn, de float64) (distance, bearing float64) {
	distance = math.Hypot(dn, de)
	bearing = math.Mod(math.Atan2(de, dn)*180/math.Pi, 360)
	if bearing < 0 {
		bearing += 360
	}
	if bearing >= 360 {
		bearing -= 360
	}
	return distance, bearing
}

func cell(row []string, cols columnMap, f Field) (string, bool) {
	i, ok := cols[f]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// number coerces a cell to a finite float; anything unparsable is 0.
func number(row []string, cols columnMap, f Field) float64 {
	s, ok := cell(row, cols, f)
	if !ok || s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func code(row []string, cols columnMap, i int) string {
	if _, ok := cols[FieldCode]; !ok {
		return "PT" + strconv.Itoa(i)
	}
	s, _ := cell(row, cols, FieldCode)
	return s
}
