package heuristics

import (
	"math/rand/v2"

	"road_simplify/pkg/graph"
)

// RemoveUnderDeltaNodes splices out nodes whose incident edges are all at
// most delta meters long, visiting ids in a shuffled order drawn from rng.
// A node needs at least two live neighbours to qualify, so leaves and
// isolated nodes always survive. This is stricter than the looser rule that
// also drops short leaves and isolated nodes: on a path A - B - C the result
// then no longer depends on which of A or B is visited first.
// Returns the number of nodes removed.
func RemoveUnderDeltaNodes(g *graph.Graph, delta float64, rng *rand.Rand) int {
	rng = orDefault(rng)
	ids := g.NodeIDs()
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	removed := 0
	for _, id := range ids {
		if !g.HasNode(id) || !underDelta(g, id, delta) {
			continue
		}
		ReplaceNodeByLinks(g, id)
		removed++
	}
	return removed
}

// underDelta reports whether id has two or more live neighbours, all within delta.
func underDelta(g *graph.Graph, id string, delta float64) bool {
	live := 0
	for _, n := range g.Neighbours(id) {
		if !g.HasNode(n) {
			continue
		}
		if g.Length(id, n) > delta {
			return false
		}
		live++
	}
	return live >= 2
}
