package graph

import (
	"fmt"
	"strconv"

	osmparser "road_simplify/pkg/osm"
)

// Build creates a Graph from parsed OSM links. Node ids are the decimal OSM
// ids. Links whose endpoints have no coordinates are skipped; a repeated
// link is inserted once.
func Build(result *osmparser.ParseResult) (*Graph, error) {
	g := New()
	if result == nil {
		return g, nil
	}

	for _, l := range result.Links {
		if l.FromNodeID == l.ToNodeID {
			return nil, fmt.Errorf("osm node %d: %w", l.FromNodeID, ErrSelfLoop)
		}
		fc, fromOk := result.Nodes[l.FromNodeID]
		tc, toOk := result.Nodes[l.ToNodeID]
		if !fromOk || !toOk {
			continue
		}

		from := strconv.FormatInt(int64(l.FromNodeID), 10)
		to := strconv.FormatInt(int64(l.ToNodeID), 10)
		g.InsertNode(from, fc)
		g.InsertNode(to, tc)
		if g.HasEdge(from, to) {
			continue
		}
		g.Connect(from, to)
	}
	return g, nil
}
