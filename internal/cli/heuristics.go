package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"road_simplify/pkg/graph"
	"road_simplify/pkg/metrics"
	"road_simplify/pkg/pipeline"
)

// reporter combines step logging with distribution files when a
// distributions directory is configured.
func (a *app) reporter(cmd *cobra.Command) metrics.Reporter {
	logger := loggerFromContext(cmd.Context())
	multi := metrics.Multi{metrics.LogReporter{Logger: logger}}
	if dir := a.v.GetString(keyDistributions); dir != "" {
		multi = append(multi, metrics.FileReporter{Dir: dir})
	}
	return multi
}

// bindDelta registers --delta on cmd; withSeed adds --seed.
func bindDelta(cmd *cobra.Command, withSeed bool) {
	cmd.Flags().Float64("delta", defaultDelta, "distance threshold in meters")
	if withSeed {
		cmd.Flags().Uint64("seed", 0, "seed for the shuffled heuristic passes")
	}
}

// stageInput is the input of heuristics and discretize: node and link
// records, or raw OSM data with --osm.
type stageInput struct {
	extractOpts
	fromOSM bool
}

func (in *stageInput) register(cmd *cobra.Command) {
	in.extractOpts.register(cmd)
	cmd.Flags().BoolVar(&in.fromOSM, "osm", false, "input is raw OSM XML (or PBF with --pbf) instead of records")
}

// load reads the input graph. Records are the default; --osm extracts the
// road links first and builds the graph from them.
func (in *stageInput) load(cmd *cobra.Command, sep rune) (*graph.Graph, error) {
	if !in.fromOSM {
		if in.pbf || in.carOnly || in.bbox != "" {
			return nil, errors.New("--pbf, --car-only and --bbox need --osm")
		}
		return in.readGraph(cmd, sep)
	}
	res, err := in.parse(cmd)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(res)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	loggerFromContext(cmd.Context()).Debug("built graph from osm", "nodes", g.NumNodes(), "edges", len(g.Edges()))
	return g, nil
}

func newHeuristicsCmd(a *app) *cobra.Command {
	var opts stageInput

	cmd := &cobra.Command{
		Use:   "heuristics",
		Short: "Simplify a road graph with distance-threshold heuristics",
		Long: `Read node and link records and simplify the graph in four steps:

  0  keep the largest connected component
  1  remove degree-2 nodes
  2  collapse nodes whose links are all shorter than --delta
  3  collapse links shorter than --delta

The simplified graph is written as records. With --distributions, the
degree, link length and substitute distributions of every step are written
to that directory. With --osm the input is raw OSM data, parsed with the
same options as the links command.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(a.v, cmd.Flags(), map[string]string{
				keyDelta: "delta",
				keySeed:  "seed",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd, &opts, pipeline.Simplify, "Simplified graph")
		},
	}
	opts.register(cmd)
	bindDelta(cmd, true)
	return cmd
}

func newDiscretizeCmd(a *app) *cobra.Command {
	var opts stageInput

	cmd := &cobra.Command{
		Use:   "discretize",
		Short: "Subdivide links longer than twice --delta",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(a.v, cmd.Flags(), map[string]string{keyDelta: "delta"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd, &opts, pipeline.Discretize, "Discretized graph")
		},
	}
	opts.register(cmd)
	bindDelta(cmd, false)
	return cmd
}

type stageFunc func(ctx context.Context, g *graph.Graph, opts pipeline.Options) (*graph.Graph, error)

func (a *app) runStage(cmd *cobra.Command, opts *stageInput, stage stageFunc, msg string) error {
	sep, err := separatorFrom(a.v)
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	g, err := opts.load(cmd, sep)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	out, err := stage(cmd.Context(), g, pipeline.Options{
		Delta:    a.v.GetFloat64(keyDelta),
		Seed:     a.v.GetUint64(keySeed),
		Reporter: a.reporter(cmd),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := opts.writeOutput(cmd, func(w io.Writer) error {
		return graph.WriteRecords(w, out, sep)
	}); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("%s: %d nodes, %d links", msg, out.NumNodes(), len(out.Edges())))
	return nil
}
