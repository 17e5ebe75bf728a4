package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"road_simplify/pkg/graph"
)

// FeatureCollection renders g as GeoJSON: one Point per node, sorted by id,
// followed by one LineString per undirected edge, sorted by canonical pair.
func FeatureCollection(g *graph.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, id := range g.NodeIDs() {
		f := geojson.NewFeature(g.Coord(id).Point())
		f.ID = id
		f.Properties["id"] = id
		f.Properties["degree"] = g.Degree(id)
		fc.Append(f)
	}

	for _, e := range g.Edges() {
		line := orb.LineString{g.Coord(e.Source).Point(), g.Coord(e.Target).Point()}
		f := geojson.NewFeature(line)
		f.Properties["source"] = e.Source
		f.Properties["target"] = e.Target
		f.Properties["length_m"] = g.Length(e.Source, e.Target)
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON encodes the feature collection of g to w.
func WriteGeoJSON(w io.Writer, g *graph.Graph) error {
	data, err := json.Marshal(FeatureCollection(g))
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
