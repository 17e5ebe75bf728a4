package discretize

import (
	"math"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
)

// Parts returns how many pieces an edge of the given length is cut into.
// Edges shorter than two deltas are left whole and report 1.
func Parts(length, delta float64) int {
	if delta <= 0 || math.IsNaN(length) {
		return 1
	}
	part := int(math.Floor(length / delta))
	if part < 2 {
		return 1
	}
	return part
}

// Discretize replaces every traversable edge u-v of length L with a chain of
// floor(L/delta)-1 evenly spaced synthetic nodes, provided that count is at
// least one. Edges are taken from a sorted snapshot and each length is
// measured between the original endpoints. Returns the number of edges
// subdivided.
func Discretize(g *graph.Graph, delta float64) int {
	subdivided := 0
	for _, e := range g.Edges() {
		u, v := e.Source, e.Target
		if !g.Traversable(u, v) {
			continue
		}
		part := Parts(g.Length(u, v), delta)
		if part < 2 {
			continue
		}
		subdivide(g, u, v, part)
		subdivided++
	}
	return subdivided
}

func subdivide(g *graph.Graph, u, v string, part int) {
	cu, cv := g.Coord(u), g.Coord(v)
	g.Disconnect(u, v)

	prev := u
	for i := 1; i < part; i++ {
		id := g.UniqueID(graph.SubdivisionID(u, v, i, part))
		g.InsertNode(id, geo.Interpolate(cu, cv, float64(i)/float64(part)))
		g.Connect(prev, id)
		prev = id
	}
	g.Connect(prev, v)
}
