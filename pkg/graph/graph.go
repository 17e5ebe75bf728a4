package graph

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"road_simplify/pkg/geo"
)

var (
	// ErrNodeNotFound is raised when an operation names an absent node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrLinkNotFound is raised when an operation names an absent link.
	ErrLinkNotFound = errors.New("link not found")
	// ErrSelfLoop is returned when a link record joins a node to itself.
	ErrSelfLoop = errors.New("self-loop")
	// ErrDuplicateNode is returned when a node is declared twice with different coordinates.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrMalformedRecord is returned for a record line with the wrong shape.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvariant reports a link entry that does not match its neighbour slot.
	ErrInvariant = errors.New("link index invariant violated")
)

// Node is an identified point with an ordered neighbour list.
// The same neighbour id may appear at different positions over the node's
// lifetime; the position is what a link entry indexes.
type Node struct {
	ID         string
	Coord      geo.Coordinate
	Neighbours []string
}

// Link is one direction of an edge.
type Link struct {
	Source string
	Target string
}

// Graph is a mutable node/link store.
//
// For every entry links[{u, v}] = k, nodes[u].Neighbours[k] == v. Every
// mutation restores this before returning. Contract violations (absent node,
// absent link) panic with an error wrapping ErrNodeNotFound or ErrLinkNotFound;
// use the lookup methods first when the data is of uncertain provenance.
type Graph struct {
	nodes map[string]*Node
	links map[Link]int
	// oneWay counts links whose reverse entry is absent.
	oneWay int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		links: make(map[Link]int),
	}
}

// InsertNode adds a node with no neighbours. It is a no-op returning false
// when id is already present; the existing node is not overwritten.
func (g *Graph) InsertNode(id string, coord geo.Coordinate) bool {
	if _, ok := g.nodes[id]; ok {
		return false
	}
	g.nodes[id] = &Node{ID: id, Coord: coord}
	return true
}

// RemoveNode deletes a node together with every link it takes part in,
// including one-way links pointing at it from nodes it does not list.
func (g *Graph) RemoveNode(id string) {
	node := g.mustNode(id)
	neighbours := slices.Clone(node.Neighbours)
	for _, n := range neighbours {
		if _, ok := g.links[Link{id, n}]; ok {
			g.RemoveLink(id, n)
		}
		// A half-severed edge has no reverse entry to drop.
		if _, ok := g.links[Link{n, id}]; ok {
			g.RemoveLink(n, id)
		}
	}
	// Incoming one-way links are not reachable from id's own list; they can
	// only exist while some link lacks its reverse.
	if g.oneWay > 0 {
		var incoming []Link
		for l := range g.links {
			if l.Target == id {
				incoming = append(incoming, l)
			}
		}
		for _, l := range incoming {
			g.RemoveLink(l.Source, l.Target)
		}
	}
	delete(g.nodes, id)
}

// InsertLink appends target to source's neighbours and records its index.
// No duplicate check is made; callers that need a simple graph must check
// HasLink first.
func (g *Graph) InsertLink(source, target string) {
	node := g.mustNode(source)
	key := Link{source, target}
	if _, dup := g.links[key]; !dup {
		g.countPair(key, +1)
	}
	node.Neighbours = append(node.Neighbours, target)
	g.links[key] = len(node.Neighbours) - 1
}

// countPair updates oneWay for key being added (delta +1) or removed (-1).
func (g *Graph) countPair(key Link, delta int) {
	if _, paired := g.links[Link{key.Target, key.Source}]; paired {
		g.oneWay -= delta
	} else {
		g.oneWay += delta
	}
}

// RemoveLink drops the (source, target) entry in O(1): the last neighbour is
// moved into the freed slot and its own link entry is repointed.
func (g *Graph) RemoveLink(source, target string) {
	key := Link{source, target}
	k, ok := g.links[key]
	if !ok {
		panic(fmt.Errorf("remove link %s -> %s: %w", source, target, ErrLinkNotFound))
	}
	delete(g.links, key)
	g.countPair(key, -1)

	node := g.mustNode(source)
	last := len(node.Neighbours) - 1
	if k != last {
		moved := node.Neighbours[last]
		node.Neighbours[k] = moved
		g.links[Link{source, moved}] = k
	}
	node.Neighbours[last] = ""
	node.Neighbours = node.Neighbours[:last]
}

// Connect inserts both directions of the edge a-b.
func (g *Graph) Connect(a, b string) {
	g.InsertLink(a, b)
	g.InsertLink(b, a)
}

// Disconnect removes both directions of the edge a-b.
func (g *Graph) Disconnect(a, b string) {
	g.RemoveLink(a, b)
	g.RemoveLink(b, a)
}

// Node returns a copy of the node. It panics if id is absent.
func (g *Graph) Node(id string) Node {
	n := g.mustNode(id)
	return Node{ID: n.ID, Coord: n.Coord, Neighbours: slices.Clone(n.Neighbours)}
}

// Lookup returns a copy of the node and whether it exists.
func (g *Graph) Lookup(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return Node{ID: n.ID, Coord: n.Coord, Neighbours: slices.Clone(n.Neighbours)}, true
}

// Coord returns the coordinate of a node. It panics if id is absent.
func (g *Graph) Coord(id string) geo.Coordinate {
	return g.mustNode(id).Coord
}

// Neighbours returns a copy of the node's neighbour list.
func (g *Graph) Neighbours(id string) []string {
	return slices.Clone(g.mustNode(id).Neighbours)
}

// Degree returns the length of the node's neighbour list.
func (g *Graph) Degree(id string) int {
	return len(g.mustNode(id).Neighbours)
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasLink reports whether the directed link source -> target is present.
func (g *Graph) HasLink(source, target string) bool {
	_, ok := g.links[Link{source, target}]
	return ok
}

// HasEdge reports whether a and b are joined in either direction.
func (g *Graph) HasEdge(a, b string) bool {
	return g.HasLink(a, b) || g.HasLink(b, a)
}

// Traversable reports whether both directions of a-b are present.
func (g *Graph) Traversable(a, b string) bool {
	return g.HasLink(a, b) && g.HasLink(b, a)
}

// LinkIndex returns the position of target in source's neighbour list.
func (g *Graph) LinkIndex(source, target string) (int, bool) {
	k, ok := g.links[Link{source, target}]
	return k, ok
}

// Length returns the great-circle length in meters between two nodes.
func (g *Graph) Length(a, b string) float64 {
	return geo.Distance(g.mustNode(a).Coord, g.mustNode(b).Coord)
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumLinks returns the number of directed link entries.
func (g *Graph) NumLinks() int { return len(g.links) }

// NodeIDs returns all node ids in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Links returns every directed link sorted by source, then target.
func (g *Graph) Links() []Link {
	links := make([]Link, 0, len(g.links))
	for l := range g.links {
		links = append(links, l)
	}
	sortLinks(links)
	return links
}

// Edges returns each undirected edge once, as a canonical pair, sorted.
// A half-severed edge is included.
func (g *Graph) Edges() []Link {
	seen := make(map[Link]struct{}, len(g.links)/2)
	for l := range g.links {
		a, b := Canonical(l.Source, l.Target)
		seen[Link{a, b}] = struct{}{}
	}
	edges := make([]Link, 0, len(seen))
	for l := range seen {
		edges = append(edges, l)
	}
	sortLinks(edges)
	return edges
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:  make(map[string]*Node, len(g.nodes)),
		links:  make(map[Link]int, len(g.links)),
		oneWay: g.oneWay,
	}
	for id, n := range g.nodes {
		c.nodes[id] = &Node{ID: n.ID, Coord: n.Coord, Neighbours: slices.Clone(n.Neighbours)}
	}
	for l, k := range g.links {
		c.links[l] = k
	}
	return c
}

// Validate checks the link index invariant, that every link names
// existing nodes, and the one-way link count.
func (g *Graph) Validate() error {
	for l, k := range g.links {
		src, ok := g.nodes[l.Source]
		if !ok {
			return fmt.Errorf("link %s -> %s: source: %w", l.Source, l.Target, ErrNodeNotFound)
		}
		if _, ok := g.nodes[l.Target]; !ok {
			return fmt.Errorf("link %s -> %s: target: %w", l.Source, l.Target, ErrNodeNotFound)
		}
		if k < 0 || k >= len(src.Neighbours) || src.Neighbours[k] != l.Target {
			return fmt.Errorf("link %s -> %s at %d: %w", l.Source, l.Target, k, ErrInvariant)
		}
	}
	for id, n := range g.nodes {
		for k, target := range n.Neighbours {
			if idx, ok := g.links[Link{id, target}]; !ok || idx != k {
				return fmt.Errorf("neighbour %s of %s at %d has no link entry: %w", target, id, k, ErrInvariant)
			}
		}
	}
	oneWay := 0
	for l := range g.links {
		if _, ok := g.links[Link{l.Target, l.Source}]; !ok {
			oneWay++
		}
	}
	if oneWay != g.oneWay {
		return fmt.Errorf("one-way links: counted %d, tracked %d: %w", oneWay, g.oneWay, ErrInvariant)
	}
	return nil
}

func (g *Graph) mustNode(id string) *Node {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Errorf("node %q: %w", id, ErrNodeNotFound))
	}
	return n
}

func sortLinks(links []Link) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].Source != links[j].Source {
			return links[i].Source < links[j].Source
		}
		return links[i].Target < links[j].Target
	})
}
