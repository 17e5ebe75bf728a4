package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"road_simplify/pkg/geo"
	"road_simplify/pkg/spatial"
)

var errEmptyGraph = errors.New("graph has no nodes")

func newNearestCmd(a *app) *cobra.Command {
	var (
		opts     ioOpts
		lat, lng float64
	)

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the graph node closest to a coordinate",
		Long:  `Print the id of the node nearest to --lat/--lng and its distance in meters, separated by a tab.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
				return fmt.Errorf("coordinate %v,%v out of range", lat, lng)
			}
			sep, err := separatorFrom(a.v)
			if err != nil {
				return err
			}
			g, err := opts.readGraph(cmd, sep)
			if err != nil {
				return err
			}
			id, meters, ok := spatial.New(g).Nearest(geo.Coordinate{Lon: lng, Lat: lat})
			if !ok {
				return errEmptyGraph
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", id, meters)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input file (default stdin)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("lng")
	return cmd
}
