package metrics

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
)

// line builds A - B - C with roughly 11 m between neighbours; C carries a
// merged id.
func line() *graph.Graph {
	g := graph.New()
	g.InsertNode("A", geo.Coordinate{Lon: 0, Lat: 0})
	g.InsertNode("B", geo.Coordinate{Lon: 0, Lat: 0.0001})
	g.InsertNode("C-D", geo.Coordinate{Lon: 0, Lat: 0.0002})
	g.Connect("A", "B")
	g.Connect("B", "C-D")
	return g
}

func TestCollect(t *testing.T) {
	s := Collect(line())

	if s.Nodes != 3 || s.Links != 2 {
		t.Errorf("nodes/links = %d/%d, want 3/2", s.Nodes, s.Links)
	}
	if diff := cmp.Diff(Distribution{1: 2, 2: 1}, s.Degree); diff != "" {
		t.Errorf("degree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Distribution{11: 4}, s.LinkLength); diff != "" {
		t.Errorf("link length mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Distribution{1: 2, 2: 1}, s.Substitutes); diff != "" {
		t.Errorf("substitutes mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectSkipsOneWayLinks(t *testing.T) {
	g := line()
	g.RemoveLink("B", "A")

	s := Collect(g)
	if diff := cmp.Diff(Distribution{0: 1, 1: 2}, s.Degree); diff != "" {
		t.Errorf("degree mismatch (-want +got):\n%s", diff)
	}
	if s.LinkLength.Total() != 2 {
		t.Errorf("link length total = %d, want 2", s.LinkLength.Total())
	}
}

func TestDistributionKeys(t *testing.T) {
	d := Distribution{5: 1, 1: 4, 3: 2}
	if diff := cmp.Diff([]int{1, 3, 5}, d.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if d.Total() != 7 {
		t.Errorf("Total = %d, want 7", d.Total())
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		prefix string
		step   int
		delta  float64
		want   string
	}{
		{"degree", 0, 10, "degree_step:0_delta:10"},
		{"links_length", 3, 6.5, "links_length_step:3_delta:6.5"},
		{"substitutes", 4, 0.25, "substitutes_step:4_delta:0.25"},
	}
	for _, tt := range tests {
		if got := FileName(tt.prefix, tt.step, tt.delta); got != tt.want {
			t.Errorf("FileName(%q, %d, %v) = %q, want %q", tt.prefix, tt.step, tt.delta, got, tt.want)
		}
	}
}

func TestFileReporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "distributions")
	s := Collect(line())
	s.Step, s.Delta = 1, 10

	if err := (FileReporter{Dir: dir}).Report(context.Background(), s); err != nil {
		t.Fatalf("Report: %v", err)
	}

	want := map[string]string{
		"degree_step:1_delta:10":       "1 2\n2 1\n",
		"links_length_step:1_delta:10": "11 4\n",
		"substitutes_step:1_delta:10":  "1 2\n2 1\n",
	}
	for name, content := range want {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("read %s: %v", name, err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s =\n%s\nwant\n%s", name, data, content)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "components_step:1_delta:10")); !os.IsNotExist(err) {
		t.Errorf("components file written without component sizes")
	}
}

func TestFileReporterComponents(t *testing.T) {
	dir := t.TempDir()
	s := Snapshot{Step: 0, Delta: 10, Components: Distribution{1: 3, 18: 1}}

	if err := (FileReporter{Dir: dir}).Report(context.Background(), s); err != nil {
		t.Fatalf("Report: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "components_step:0_delta:10"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "1 3\n18 1\n" {
		t.Errorf("components file = %q, want %q", data, "1 3\n18 1\n")
	}
}

func TestFileReporterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (FileReporter{Dir: t.TempDir()}).Report(ctx, Snapshot{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Report error = %v, want context.Canceled", err)
	}
}

type recorder struct {
	steps []int
	err   error
}

func (r *recorder) Report(_ context.Context, s Snapshot) error {
	r.steps = append(r.steps, s.Step)
	return r.err
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{}, &recorder{err: boom}

	err := Multi{a, Nop{}, b}.Report(context.Background(), Snapshot{Step: 2})
	if !errors.Is(err, boom) {
		t.Errorf("Multi error = %v, want boom", err)
	}
	if len(a.steps) != 1 || len(b.steps) != 1 {
		t.Errorf("reporters called %d/%d times, want 1/1", len(a.steps), len(b.steps))
	}
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	s := Collect(line())
	s.Step = 3
	if err := (LogReporter{Logger: logger}).Report(context.Background(), s); err != nil {
		t.Fatalf("Report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "step complete") || !strings.Contains(out, "nodes=3") {
		t.Errorf("log output = %q, want step summary", out)
	}
}
