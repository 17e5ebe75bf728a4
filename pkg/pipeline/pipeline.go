package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"road_simplify/pkg/discretize"
	"road_simplify/pkg/graph"
	"road_simplify/pkg/heuristics"
	"road_simplify/pkg/metrics"
)

// Step numbers, as they appear in distribution file names.
const (
	StepLargestComponent = 0
	StepDegreeTwo        = 1
	StepNodeCollapse     = 2
	StepLinkCollapse     = 3
	StepDiscretize       = 4
)

// Options configures a pipeline run.
type Options struct {
	Delta    float64 // meters
	Seed     uint64
	Reporter metrics.Reporter
	Logger   *log.Logger
}

func (o Options) reporter() metrics.Reporter {
	if o.Reporter == nil {
		return metrics.Nop{}
	}
	return o.Reporter
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Simplify runs the simplification stages on g and returns the result:
// largest component, degree-2 elimination, node collapse and link collapse.
// A snapshot is reported after every stage. g itself is only read by the
// first stage; later stages mutate the copy it produces.
//
// Stages run to completion once started; ctx is checked between them.
func Simplify(ctx context.Context, g *graph.Graph, opts Options) (*graph.Graph, error) {
	if opts.Delta < 0 {
		return nil, fmt.Errorf("delta %v: must not be negative", opts.Delta)
	}
	logger := opts.logger()
	rng := heuristics.NewRand(opts.Seed)

	var sizes graph.ComponentSizes
	stages := []struct {
		step int
		name string
		run  func()
	}{
		{StepLargestComponent, "largest component", func() { g, sizes = graph.LargestComponent(g) }},
		{StepDegreeTwo, "degree-2 elimination", func() { heuristics.RemoveDegreeTwoNodes(g) }},
		{StepNodeCollapse, "node collapse", func() { heuristics.RemoveUnderDeltaNodes(g, opts.Delta, rng) }},
		{StepLinkCollapse, "link collapse", func() { heuristics.RemoveUnderDeltaLinks(g, opts.Delta, rng) }},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("before %s: %w", st.name, err)
		}
		start := time.Now()
		st.run()
		logger.Debug("stage done", "step", st.step, "stage", st.name, "nodes", g.NumNodes(), "elapsed", time.Since(start))

		snap := metrics.Collect(g)
		snap.Step, snap.Delta = st.step, opts.Delta
		if st.step == StepLargestComponent {
			snap.Components = metrics.Distribution(sizes)
		}
		if err := opts.reporter().Report(ctx, snap); err != nil {
			return nil, fmt.Errorf("report step %d: %w", st.step, err)
		}
	}
	return g, nil
}

// Discretize subdivides the long edges of g in place and reports the result.
func Discretize(ctx context.Context, g *graph.Graph, opts Options) (*graph.Graph, error) {
	if opts.Delta <= 0 {
		return nil, fmt.Errorf("delta %v: must be positive", opts.Delta)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	n := discretize.Discretize(g, opts.Delta)
	opts.logger().Debug("stage done", "step", StepDiscretize, "stage", "discretize",
		"subdivided", n, "nodes", g.NumNodes(), "elapsed", time.Since(start))

	snap := metrics.Collect(g)
	snap.Step, snap.Delta = StepDiscretize, opts.Delta
	if err := opts.reporter().Report(ctx, snap); err != nil {
		return nil, fmt.Errorf("report step %d: %w", StepDiscretize, err)
	}
	return g, nil
}
