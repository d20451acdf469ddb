package models

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrDegenerateTraverse is reported when a traverse has zero total length, so no
// correction can be distributed and no precision ratio exists.
var ErrDegenerateTraverse = errors.New("degenerate traverse: total distance is zero")

// Table is the format-agnostic shape every reader produces: ordered rows under named columns.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Coordinate is an absolute plane position.
type Coordinate struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// Vector is a displacement split into its North and East components.
type Vector struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Length returns the magnitude of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.North, v.East)
}

// Leg is one traverse segment together with every intermediate value of its adjustment.
type Leg struct {
	Code          string  `json:"code"`
	Group         string  `json:"group"`
	Distance      float64 `json:"distance"`
	Bearing       float64 `json:"bearing"`
	Latitude      float64 `json:"latitude"`
	Departure     float64 `json:"departure"`
	CorrectionLat float64 `json:"correction_lat"`
	CorrectionDep float64 `json:"correction_dep"`
	AdjustedLat   float64 `json:"adjusted_lat"`
	AdjustedDep   float64 `json:"adjusted_dep"`
	PrevNorthing  float64 `json:"prev_northing"`
	PrevEasting   float64 `json:"prev_easting"`
	FinalNorthing float64 `json:"final_northing"`
	FinalEasting  float64 `json:"final_easting"`
	Closing       bool    `json:"closing,omitempty"`
}

// Adjustment is the output of a Bowditch adjustment.
//
// Misclosure is the raw traverse error, measured before any closing leg is
// appended. Distributed is the residual the correction rule actually spread
// across the legs; it equals Misclosure unless a closing leg was synthesized,
// in which case it is zero up to rounding and ClosingVector holds the
// displacement of that leg.
type Adjustment struct {
	Start         Coordinate `json:"start"`
	CloseLoop     bool       `json:"close_loop"`
	Legs          []Leg      `json:"legs"`
	Misclosure    Vector     `json:"misclosure"`
	Distributed   Vector     `json:"distributed"`
	ClosingVector *Vector    `json:"closing_vector,omitempty"`
	TotalDistance float64    `json:"total_distance"`
}

// LinearMisclosure returns the length of the raw misclosure vector.
func (a *Adjustment) LinearMisclosure() float64 {
	return a.Misclosure.Length()
}

// PrecisionRatio returns total distance over linear misclosure. perfect is true
// when the misclosure is exactly zero, in which case the ratio is unbounded.
func (a *Adjustment) PrecisionRatio() (ratio float64, perfect bool) {
	linear := a.LinearMisclosure()
	if linear == 0 {
		return math.Inf(1), true
	}
	return a.TotalDistance / linear, false
}

// Check reports ErrDegenerateTraverse when the traverse has no length.
func (a *Adjustment) Check() error {
	if a.TotalDistance == 0 {
		return ErrDegenerateTraverse
	}
	return nil
}

// Groups returns the legs partitioned by feature group, in order of first appearance.
func (a *Adjustment) Groups() []FeatureGroup {
	index := make(map[string]int)
	var groups []FeatureGroup
	for _, leg := range a.Legs {
		i, ok := index[leg.Group]
		if !ok {
			i = len(groups)
			index[leg.Group] = i
			groups = append(groups, FeatureGroup{Name: leg.Group})
		}
		groups[i].Legs = append(groups[i].Legs, leg)
	}
	return groups
}

// FeatureGroup is a display partition of legs sharing a code prefix.
type FeatureGroup struct {
	Name string
	Legs []Leg
}

// Traverse is a stored, immutable adjustment result.
type Traverse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	CoordinateDerived bool      `json:"coordinate_derived"`
	CreatedAt         time.Time `json:"created_at"`
	Adjustment
}

// TraverseSummary is the list view of a stored traverse.
type TraverseSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	LegCount         int       `json:"leg_count"`
	TotalDistance    float64   `json:"total_distance"`
	LinearMisclosure float64   `json:"linear_misclosure"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdjustRequest carries everything needed to compute one traverse.
type AdjustRequest struct {
	Name      string
	Table     Table
	Start     Coordinate
	CloseLoop bool
}
