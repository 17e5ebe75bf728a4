package heuristics

import "road_simplify/pkg/graph"

// RemoveDegreeTwoNodes splices out every node with exactly two neighbours and
// returns how many were removed.
//
// Each pass snapshots the degree-2 ids in sorted order and re-checks the
// degree before splicing, since an earlier splice in the same pass can drop
// a neighbour's degree. Passes repeat until one removes nothing.
func RemoveDegreeTwoNodes(g *graph.Graph) int {
	removed := 0
	for {
		var candidates []string
		for _, id := range g.NodeIDs() {
			if g.Degree(id) == 2 {
				candidates = append(candidates, id)
			}
		}

		pass := 0
		for _, id := range candidates {
			if !g.HasNode(id) || g.Degree(id) != 2 {
				continue
			}
			ReplaceNodeByLinks(g, id)
			pass++
		}
		removed += pass
		if pass == 0 {
			return removed
		}
	}
}
