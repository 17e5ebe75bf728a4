package metrics

import (
	"sort"
	"strings"

	"road_simplify/pkg/graph"
)

// Distribution maps a bucket (degree, length in whole meters, part count) to
// the number of items falling in it.
type Distribution map[int]int

// Keys returns the buckets in ascending order.
func (d Distribution) Keys() []int {
	keys := make([]int, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Snapshot describes a graph after one pipeline step.
type Snapshot struct {
	Step  int
	Delta float64

	Nodes int
	Links int // undirected edges

	Degree      Distribution // traversable neighbours per node
	LinkLength  Distribution // per directed traversable link, truncated meters
	Substitutes Distribution // number of '-' separated parts in a node id
	Components  Distribution // component size -> count, set by the component step only
}

// Collect computes the node/link counts and histograms of g. Step, Delta and
// Components are left for the caller to fill in.
func Collect(g *graph.Graph) Snapshot {
	s := Snapshot{
		Nodes:       g.NumNodes(),
		Links:       len(g.Edges()),
		Degree:      make(Distribution),
		LinkLength:  make(Distribution),
		Substitutes: make(Distribution),
	}

	for _, id := range g.NodeIDs() {
		degree := 0
		for _, n := range g.Neighbours(id) {
			if !g.HasNode(n) || !g.Traversable(id, n) {
				continue
			}
			degree++
			s.LinkLength[int(g.Length(id, n))]++
		}
		s.Degree[degree]++
		s.Substitutes[len(strings.Split(id, "-"))]++
	}
	return s
}
