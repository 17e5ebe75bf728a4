package metrics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
)

// Reporter consumes a snapshot after each pipeline step. It never feeds
// anything back into the graph.
type Reporter interface {
	Report(ctx context.Context, s Snapshot) error
}

// Nop discards every snapshot.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(context.Context, Snapshot) error { return nil }

// Multi fans a snapshot out to several reporters and joins their errors.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(ctx context.Context, s Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogReporter writes a one-line summary per snapshot and the histograms at
// debug level.
type LogReporter struct {
	Logger *log.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(_ context.Context, s Snapshot) error {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("step complete", "step", s.Step, "delta", s.Delta, "nodes", s.Nodes, "links", s.Links)
	logger.Debug("distributions", "step", s.Step,
		"degree", s.Degree, "substitutes", s.Substitutes, "length_buckets", len(s.LinkLength))
	if len(s.Components) > 0 {
		logger.Debug("components", "count", s.Components.Total(), "sizes", s.Components)
	}
	return nil
}

// FileReporter writes one file per histogram into Dir, named after the step
// and delta, e.g. degree_step:2_delta:10. Each line is "bucket count",
// sorted by bucket.
type FileReporter struct {
	Dir string
}

// Report implements Reporter.
func (r FileReporter) Report(ctx context.Context, s Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("create distributions dir: %w", err)
	}

	files := []histogram{
		{"degree", s.Degree},
		{"links_length", s.LinkLength},
		{"substitutes", s.Substitutes},
	}
	if len(s.Components) > 0 {
		files = append(files, histogram{"components", s.Components})
	}

	for _, f := range files {
		path := filepath.Join(r.Dir, FileName(f.prefix, s.Step, s.Delta))
		if err := writeDistribution(path, f.dist); err != nil {
			return err
		}
	}
	return nil
}

type histogram struct {
	prefix string
	dist   Distribution
}

// FileName returns the distribution file name for a histogram prefix.
func FileName(prefix string, step int, delta float64) string {
	return fmt.Sprintf("%s_step:%d_delta:%s", prefix, step, strconv.FormatFloat(delta, 'f', -1, 64))
}

func writeDistribution(path string, d Distribution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, k := range d.Keys() {
		fmt.Fprintf(w, "%d %d\n", k, d[k])
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
