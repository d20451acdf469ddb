package export

import (
	"io"

	"traverse-api/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WriteGeoJSON writes a feature collection in the traverse's plane
// coordinates (x = easting, y = northing): a LineString per feature group and
// a Point per leg.
func WriteGeoJSON(w io.Writer, t *models.Traverse) error {
	fc := geojson.NewFeatureCollection()

	for _, g := range t.Groups() {
		line := make(orb.LineString, 0, len(g.Legs))
		for _, leg := range g.Legs {
			line = append(line, orb.Point{leg.FinalEasting, leg.FinalNorthing})
		}
		f := geojson.NewFeature(line)
		f.Properties["group"] = g.Name
		f.Properties["points"] = len(g.Legs)
		fc.Append(f)
	}

	for i, leg := range t.Legs {
		f := geojson.NewFeature(orb.Point{leg.FinalEasting, leg.FinalNorthing})
		f.Properties["seq"] = i + 1
		f.Properties["code"] = leg.Code
		f.Properties["group"] = leg.Group
		f.Properties["closing"] = leg.Closing
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
