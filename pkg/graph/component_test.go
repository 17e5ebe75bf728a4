package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"road_simplify/pkg/geo"
)

func loadFixture(t *testing.T, name string) *Graph {
	t.Helper()
	g, err := ReadFile("testdata/"+name+".records", DefaultSeparator)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return g
}

func TestLargestComponent(t *testing.T) {
	g := loadFixture(t, "largest_component")
	if g.NumNodes() != 39 {
		t.Fatalf("fixture NumNodes = %d, want 39", g.NumNodes())
	}

	lcc, sizes := LargestComponent(g)

	if lcc.NumNodes() != 18 {
		t.Errorf("NumNodes = %d, want 18", lcc.NumNodes())
	}
	if len(lcc.Edges()) != 20 {
		t.Errorf("edges = %d, want 20", len(lcc.Edges()))
	}

	expected := map[string]int{
		"3758221295": 1,
		"3761637488": 2,
		"3761637489": 4,
		"2268836829": 1,
		"3761637490": 2,
		"3758221301": 1,
		"3761637486": 4,
		"2576426856": 2,
		"2576426855": 2,
		"3761637482": 4,
		"2576426850": 2,
		"3758221292": 2,
		"2576426853": 3,
		"2576426851": 2,
		"2576426852": 2,
		"2576426854": 2,
		"2576426858": 2,
		"2576426859": 2,
	}
	for id, degree := range expected {
		if !lcc.HasNode(id) {
			t.Errorf("node %s missing", id)
			continue
		}
		if d := lcc.Degree(id); d != degree {
			t.Errorf("Degree(%s) = %d, want %d", id, d, degree)
		}
	}

	wantSizes := ComponentSizes{1: 1, 3: 2, 5: 1, 9: 1, 18: 1}
	if diff := cmp.Diff(wantSizes, sizes); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if err := lcc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// The input is left untouched.
	if g.NumNodes() != 39 {
		t.Errorf("input NumNodes = %d after LargestComponent, want 39", g.NumNodes())
	}
}

func TestLargestComponentEmpty(t *testing.T) {
	lcc, sizes := LargestComponent(New())
	if lcc.NumNodes() != 0 || len(sizes) != 0 {
		t.Errorf("got %d nodes and %v sizes, want empty", lcc.NumNodes(), sizes)
	}
}

func TestLargestComponentTieKeepsFirst(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.InsertNode(id, geo.Coordinate{})
	}
	g.Connect("c", "d")
	g.Connect("a", "b")

	lcc, sizes := LargestComponent(g)
	if !lcc.HasNode("a") || !lcc.HasNode("b") || lcc.NumNodes() != 2 {
		t.Errorf("nodes = %v, want [a b]", lcc.NodeIDs())
	}
	if sizes[2] != 2 {
		t.Errorf("sizes[2] = %d, want 2", sizes[2])
	}
}

func TestLargestComponentIgnoresOneWayLinks(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.InsertNode(id, geo.Coordinate{})
	}
	g.Connect("a", "b")
	g.InsertLink("b", "c")

	lcc, sizes := LargestComponent(g)
	if lcc.NumNodes() != 2 || lcc.HasNode("c") {
		t.Errorf("nodes = %v, want [a b]", lcc.NodeIDs())
	}
	if diff := cmp.Diff(ComponentSizes{2: 1, 1: 1}, sizes); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if lcc.NumLinks() != 2 {
		t.Errorf("NumLinks = %d, want 2", lcc.NumLinks())
	}
}

func BenchmarkLargestComponent(b *testing.B) {
	g, err := ReadFile("testdata/largest_component.records", DefaultSeparator)
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		LargestComponent(g)
	}
}
