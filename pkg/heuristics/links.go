package heuristics

import (
	"math/rand/v2"
	"sort"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
)

// ReplaceLinkByNode contracts the edge u-v into a single node at the
// midpoint of u and v and returns its id.
//
// The new node takes the canonical merge id (made unique if a live node
// already carries it), so contracting (u, v) and (v, u) gives the same
// result. Its neighbours are the deduplicated union of the other neighbours
// of u and v; the u-v edge itself is dropped. It panics if u or v is absent.
func ReplaceLinkByNode(g *graph.Graph, u, v string) string {
	mid := geo.Midpoint(g.Coord(u), g.Coord(v))

	union := make(map[string]struct{})
	for _, end := range []string{u, v} {
		for _, n := range g.Neighbours(end) {
			if n != u && n != v && g.HasNode(n) {
				union[n] = struct{}{}
			}
		}
	}
	neighbours := make([]string, 0, len(union))
	for n := range union {
		neighbours = append(neighbours, n)
	}
	sort.Strings(neighbours)

	g.RemoveNode(u)
	g.RemoveNode(v)

	id := g.UniqueID(graph.MergeID(u, v))
	g.InsertNode(id, mid)
	for _, n := range neighbours {
		g.Connect(id, n)
	}
	return id
}

// RemoveUnderDeltaLinks contracts traversable links shorter than delta meters
// until none remain. Each pass walks the sorted link list in an order shuffled
// by rng, skipping links removed earlier in the pass. A contraction moves an
// endpoint, which can shorten a neighbouring link, hence the repeated passes.
// Returns the number of contractions.
func RemoveUnderDeltaLinks(g *graph.Graph, delta float64, rng *rand.Rand) int {
	rng = orDefault(rng)
	contracted := 0
	for {
		links := g.Links()
		rng.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })

		for _, l := range links {
			if !g.HasNode(l.Source) || !g.HasNode(l.Target) || !g.Traversable(l.Source, l.Target) {
				continue
			}
			if g.Length(l.Source, l.Target) >= delta {
				continue
			}
			ReplaceLinkByNode(g, l.Source, l.Target)
			contracted++
		}

		if !hasShortLink(g, delta) {
			return contracted
		}
	}
}

func hasShortLink(g *graph.Graph, delta float64) bool {
	for _, e := range g.Edges() {
		if g.Traversable(e.Source, e.Target) && g.Length(e.Source, e.Target) < delta {
			return true
		}
	}
	return false
}
