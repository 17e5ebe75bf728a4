package heuristics

import "road_simplify/pkg/graph"

// ReplaceNodeByLinks removes id and joins every pair of its former
// neighbours that is not already joined. No parallel edge and no self-loop
// is ever created. It panics if id is absent.
func ReplaceNodeByLinks(g *graph.Graph, id string) {
	neighbours := g.Neighbours(id)
	g.RemoveNode(id)

	for i := 0; i < len(neighbours); i++ {
		for j := i + 1; j < len(neighbours); j++ {
			a, b := neighbours[i], neighbours[j]
			if a == b || !g.HasNode(a) || !g.HasNode(b) || g.HasEdge(a, b) {
				continue
			}
			g.Connect(a, b)
		}
	}
}
