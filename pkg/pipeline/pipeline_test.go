package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
	"road_simplify/pkg/metrics"
)

type recorder struct {
	snaps []metrics.Snapshot
}

func (r *recorder) Report(_ context.Context, s metrics.Snapshot) error {
	r.snaps = append(r.snaps, s)
	return nil
}

func quiet() *log.Logger { return log.New(io.Discard) }

func loadFixture(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.ReadFile("testdata/largest_component.records", graph.DefaultSeparator)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return g
}

func TestSimplify(t *testing.T) {
	rec := &recorder{}
	out, err := Simplify(context.Background(), loadFixture(t), Options{
		Delta:    10,
		Seed:     1,
		Reporter: rec,
		Logger:   quiet(),
	})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}

	type shape struct{ Step, Nodes, Links int }
	want := []shape{
		{StepLargestComponent, 18, 20},
		{StepDegreeTwo, 5, 4},
		{StepNodeCollapse, 5, 4},
		{StepLinkCollapse, 4, 3},
	}
	var got []shape
	for _, s := range rec.snaps {
		got = append(got, shape{s.Step, s.Nodes, s.Links})
		if s.Delta != 10 {
			t.Errorf("step %d delta = %v, want 10", s.Step, s.Delta)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshots mismatch (-want +got):\n%s", diff)
	}

	wantSizes := metrics.Distribution{1: 1, 3: 2, 5: 1, 9: 1, 18: 1}
	if diff := cmp.Diff(wantSizes, rec.snaps[0].Components); diff != "" {
		t.Errorf("component sizes mismatch (-want +got):\n%s", diff)
	}
	if rec.snaps[1].Components != nil {
		t.Errorf("step 1 components = %v, want nil", rec.snaps[1].Components)
	}

	wantDegrees := map[string]int{
		"2268836829-3761637489": 3,
		"3758221295":            1,
		"3758221301":            1,
		"3761637482":            1,
	}
	gotDegrees := make(map[string]int)
	for _, id := range out.NodeIDs() {
		gotDegrees[id] = out.Degree(id)
	}
	if diff := cmp.Diff(wantDegrees, gotDegrees); diff != "" {
		t.Errorf("degrees mismatch (-want +got):\n%s", diff)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSimplifyLeavesInputIntact(t *testing.T) {
	g := loadFixture(t)
	if _, err := Simplify(context.Background(), g, Options{Delta: 10, Logger: quiet()}); err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if g.NumNodes() != 39 {
		t.Errorf("input NumNodes = %d, want 39", g.NumNodes())
	}
}

func TestSimplifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	_, err := Simplify(ctx, loadFixture(t), Options{Delta: 10, Reporter: rec, Logger: quiet()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Simplify error = %v, want context.Canceled", err)
	}
	if len(rec.snaps) != 0 {
		t.Errorf("reported %d snapshots after cancel, want 0", len(rec.snaps))
	}
}

func TestSimplifyNegativeDelta(t *testing.T) {
	if _, err := Simplify(context.Background(), graph.New(), Options{Delta: -1}); err == nil {
		t.Error("Simplify with negative delta should fail")
	}
}

func TestSimplifyWritesDistributions(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Delta: 10, Reporter: metrics.FileReporter{Dir: dir}, Logger: quiet()}
	if _, err := Simplify(context.Background(), loadFixture(t), opts); err != nil {
		t.Fatalf("Simplify: %v", err)
	}

	for _, name := range []string{
		"components_step:0_delta:10",
		"degree_step:0_delta:10",
		"links_length_step:2_delta:10",
		"substitutes_step:3_delta:10",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestDiscretize(t *testing.T) {
	g := graph.New()
	g.InsertNode("a", geo.Coordinate{Lon: 0, Lat: 0})
	g.InsertNode("b", geo.Coordinate{Lon: 0, Lat: 0.00076})
	g.Connect("a", "b")

	rec := &recorder{}
	out, err := Discretize(context.Background(), g, Options{Delta: 6, Reporter: rec, Logger: quiet()})
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}
	if out.NumNodes() != 15 {
		t.Errorf("NumNodes = %d, want 15", out.NumNodes())
	}
	if len(rec.snaps) != 1 || rec.snaps[0].Step != StepDiscretize {
		t.Fatalf("snapshots = %+v, want one step %d", rec.snaps, StepDiscretize)
	}
	if diff := cmp.Diff(metrics.Distribution{1: 2, 2: 13}, rec.snaps[0].Degree); diff != "" {
		t.Errorf("degree mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscretizeRejectsZeroDelta(t *testing.T) {
	if _, err := Discretize(context.Background(), graph.New(), Options{}); err == nil {
		t.Error("Discretize with zero delta should fail")
	}
}
