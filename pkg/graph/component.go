package graph

// ComponentSizes maps a component size to the number of components of that size.
type ComponentSizes map[int]int

// LargestComponent returns a new graph holding only the largest connected
// component of g, plus the size histogram of every component found.
//
// Components are explored breadth-first over traversable links (both
// directions present). Start nodes are taken in sorted id order, and on a
// size tie the component discovered first wins. Links of the result are
// rebuilt by insertion rather than copied, so the index invariant holds in the
// fresh store.
func LargestComponent(g *Graph) (*Graph, ComponentSizes) {
	sizes := make(ComponentSizes)
	if g.NumNodes() == 0 {
		return New(), sizes
	}

	visited := make(map[string]bool, g.NumNodes())
	var best []string

	for _, start := range g.NodeIDs() {
		if visited[start] {
			continue
		}

		component := []string{start}
		visited[start] = true
		for head := 0; head < len(component); head++ {
			u := component[head]
			for _, v := range g.nodes[u].Neighbours {
				if visited[v] || !g.HasLink(v, u) {
					continue
				}
				visited[v] = true
				component = append(component, v)
			}
		}

		sizes[len(component)]++
		if len(component) > len(best) {
			best = component
		}
	}

	out := New()
	for _, id := range best {
		out.InsertNode(id, g.nodes[id].Coord)
	}
	for _, id := range best {
		for _, n := range g.nodes[id].Neighbours {
			if out.HasNode(n) {
				out.InsertLink(id, n)
			}
		}
	}
	return out, sizes
}
