package traverse

import "traverse-api/internal/models"

// ClosingCode is the code given to a synthesized closing leg.
const ClosingCode = "CLOSE"

// closeTolerance is the shortest gap worth closing with a synthetic leg.
const closeTolerance = 1e-4

// Adjust distributes the traverse misclosure over the legs in proportion to
// their length and accumulates final coordinates from start.
//
// The input slice is not modified. With closeLoop set, a closing leg back to
// start is appended first whenever the raw path ends more than 1e-4 away.
func Adjust(legs []models.Leg, start models.Coordinate, closeLoop bool) *models.Adjustment {
	out := make([]models.Leg, len(legs), len(legs)+1)
	copy(out, legs)

	var raw models.Vector
	for _, leg := range out {
		raw.North += leg.Latitude
		raw.East += leg.Departure
	}

	adj := &models.Adjustment{
		Start:      start,
		CloseLoop:  closeLoop,
		Misclosure: raw,
	}

	if closeLoop {
		gap := models.Vector{North: -raw.North, East: -raw.East}
		if gap.Length() > closeTolerance {
			distance, bearing := Inverse(gap.North, gap.East)
			out = append(out, models.Leg{
				Code:      ClosingCode,
				Group:     Group(ClosingCode),
				Distance:  distance,
				Bearing:   bearing,
				Latitude:  gap.North,
				Departure: gap.East,
				Closing:   true,
			})
			adj.ClosingVector = &gap
		}
	}

	var residual models.Vector
	var total float64
	for _, leg := range out {
		residual.North += leg.Latitude
		residual.East += leg.Departure
		total += leg.Distance
	}
	adj.Distributed = residual
	adj.TotalDistance = total

	n, e := start.Northing, start.Easting
	for i := range out {
		leg := &out[i]
		leg.Group = Group(leg.Code)
		leg.CorrectionLat, leg.CorrectionDep = 0, 0
		if total != 0 {
			share := leg.Distance / total
			leg.CorrectionLat = -share * residual.North
			leg.CorrectionDep = -share * residual.East
		}
		leg.AdjustedLat = leg.Latitude + leg.CorrectionLat
		leg.AdjustedDep = leg.Departure + leg.CorrectionDep

		leg.PrevNorthing, leg.PrevEasting = n, e
		n += leg.AdjustedLat
		e += leg.AdjustedDep
		leg.FinalNorthing, leg.FinalEasting = n, e
	}
	adj.Legs = out

	return adj
}
