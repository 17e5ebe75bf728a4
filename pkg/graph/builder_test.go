package graph

import (
	"errors"
	"testing"

	"github.com/paulmach/osm"

	"road_simplify/pkg/geo"
	osmparser "road_simplify/pkg/osm"
)

func TestBuildSimpleGraph(t *testing.T) {
	// Triangle 100 - 200 - 300 - 100.
	result := &osmparser.ParseResult{
		Links: []osmparser.RawLink{
			{FromNodeID: 100, ToNodeID: 200},
			{FromNodeID: 200, ToNodeID: 300},
			{FromNodeID: 100, ToNodeID: 300},
		},
		Nodes: map[osm.NodeID]geo.Coordinate{
			100: {Lon: 103.0, Lat: 1.0},
			200: {Lon: 103.0, Lat: 1.1},
			300: {Lon: 103.1, Lat: 1.0},
		},
	}

	g, err := Build(result)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NumNodes() != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes())
	}
	if g.NumLinks() != 6 {
		t.Fatalf("NumLinks = %d, want 6", g.NumLinks())
	}
	for _, id := range g.NodeIDs() {
		if d := g.Degree(id); d != 2 {
			t.Errorf("Degree(%s) = %d, want 2", id, d)
		}
	}
	if c := g.Coord("200"); c.Lat != 1.1 || c.Lon != 103.0 {
		t.Errorf("Coord(200) = %v, want {103 1.1}", c)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	g, err := Build(&osmparser.ParseResult{Nodes: map[osm.NodeID]geo.Coordinate{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NumNodes() != 0 {
		t.Errorf("NumNodes = %d, want 0", g.NumNodes())
	}
}

func TestBuildSkipsMissingCoordinates(t *testing.T) {
	result := &osmparser.ParseResult{
		Links: []osmparser.RawLink{
			{FromNodeID: 1, ToNodeID: 2},
			{FromNodeID: 2, ToNodeID: 3},
			{FromNodeID: 1, ToNodeID: 2},
		},
		Nodes: map[osm.NodeID]geo.Coordinate{
			1: {Lon: 2.34, Lat: 48.82},
			2: {Lon: 2.35, Lat: 48.82},
		},
	}

	g, err := Build(result)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NumNodes() != 2 || g.NumLinks() != 2 {
		t.Errorf("nodes/links = %d/%d, want 2/2", g.NumNodes(), g.NumLinks())
	}
	if g.HasNode("3") {
		t.Error("node 3 has no coordinates and should be skipped")
	}
}

func TestBuildSelfLoop(t *testing.T) {
	result := &osmparser.ParseResult{
		Links: []osmparser.RawLink{{FromNodeID: 7, ToNodeID: 7}},
		Nodes: map[osm.NodeID]geo.Coordinate{7: {}},
	}
	if _, err := Build(result); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Build error = %v, want ErrSelfLoop", err)
	}
}
