package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"road_simplify/pkg/osm"
)

// extractOpts holds the flags shared by the nodes and links commands.
type extractOpts struct {
	ioOpts
	pbf     bool
	carOnly bool
	bbox    string
}

func (o *extractOpts) register(cmd *cobra.Command) {
	o.ioOpts.register(cmd)
	cmd.Flags().BoolVar(&o.pbf, "pbf", false, "input is OSM PBF instead of XML")
	cmd.Flags().BoolVar(&o.carOnly, "car-only", false, "keep only car-accessible ways")
	cmd.Flags().StringVar(&o.bbox, "bbox", "", "keep links inside minLat,minLng,maxLat,maxLng")
}

func (o *extractOpts) parse(cmd *cobra.Command) (*osm.ParseResult, error) {
	bbox, err := parseBBox(o.bbox)
	if err != nil {
		return nil, err
	}
	popts := osm.ParseOptions{BBox: bbox, Logger: loggerFromContext(cmd.Context())}
	if o.carOnly {
		popts.Filter = osm.CarWays
	}

	r, err := o.open(cmd)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if !o.pbf {
		return osm.Parse(cmd.Context(), r, popts)
	}
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// stdin cannot seek; the PBF parser reads its input twice.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		rs = bytes.NewReader(data)
	}
	return osm.ParsePBF(cmd.Context(), rs, popts)
}

func parseBBox(s string) (osm.BBox, error) {
	if s == "" {
		return osm.BBox{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return osm.BBox{}, fmt.Errorf("bbox %q: want minLat,minLng,maxLat,maxLng", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return osm.BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	b := osm.BBox{MinLat: v[0], MinLng: v[1], MaxLat: v[2], MaxLng: v[3]}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return osm.BBox{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}
	return b, nil
}

func newNodesCmd(a *app) *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Extract node records from OSM data",
		Long:  `Print one "id␟lat␟lon" record for every node referenced by a kept road link.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := separatorFrom(a.v)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			res, err := opts.parse(cmd)
			if err != nil {
				return err
			}
			if err := opts.writeOutput(cmd, func(w io.Writer) error {
				return osm.WriteNodes(w, res, sep)
			}); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Extracted %d nodes", len(res.Nodes)))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func newLinksCmd(a *app) *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Extract link records from OSM data",
		Long:  `Print one "from␟to" record for every consecutive pair of nodes along a kept way.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := separatorFrom(a.v)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			res, err := opts.parse(cmd)
			if err != nil {
				return err
			}
			if err := opts.writeOutput(cmd, func(w io.Writer) error {
				return osm.WriteLinks(w, res, sep)
			}); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Extracted %d links", len(res.Links)))
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
