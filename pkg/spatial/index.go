package spatial

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
)

// Index is an R-tree over the node coordinates of a graph. It is a snapshot:
// later mutations of the graph are not reflected.
type Index struct {
	tr     rtree.RTreeG[string]
	coords map[string]geo.Coordinate
}

// New indexes every node of g.
func New(g *graph.Graph) *Index {
	ix := &Index{coords: make(map[string]geo.Coordinate, g.NumNodes())}
	for _, id := range g.NodeIDs() {
		c := g.Coord(id)
		p := [2]float64{c.Lon, c.Lat}
		ix.tr.Insert(p, p, id)
		ix.coords[id] = c
	}
	return ix
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return ix.tr.Len() }

// Nearest returns the node closest to c and its great-circle distance in
// meters. Candidates are ranked by equirectangular distance, which agrees
// with the great-circle order at road-network scales.
func (ix *Index) Nearest(c geo.Coordinate) (id string, meters float64, ok bool) {
	k := math.Cos(c.Lat * math.Pi / 180)
	ix.tr.Nearby(
		func(min, max [2]float64, _ string, _ bool) float64 {
			dx := axisDist(c.Lon, min[0], max[0]) * k
			dy := axisDist(c.Lat, min[1], max[1])
			return dx*dx + dy*dy
		},
		func(_, _ [2]float64, data string, _ float64) bool {
			id, ok = data, true
			return false
		},
	)
	if !ok {
		return "", 0, false
	}
	return id, geo.Distance(c, ix.coords[id]), true
}

// Within returns the sorted ids of nodes inside b.
func (ix *Index) Within(b orb.Bound) []string {
	var ids []string
	ix.tr.Search(
		[2]float64{b.Min.Lon(), b.Min.Lat()},
		[2]float64{b.Max.Lon(), b.Max.Lat()},
		func(_, _ [2]float64, data string) bool {
			ids = append(ids, data)
			return true
		},
	)
	sort.Strings(ids)
	return ids
}

// axisDist is the distance from v to the interval [lo, hi], zero inside it.
func axisDist(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	}
	return 0
}
