package cli

import (
	"io"

	"github.com/spf13/cobra"

	"road_simplify/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var opts ioOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a record graph to GeoJSON",
		Long:  `Write nodes as Point features and each undirected edge as a LineString feature.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := separatorFrom(a.v)
			if err != nil {
				return err
			}
			g, err := opts.readGraph(cmd, sep)
			if err != nil {
				return err
			}
			return opts.writeOutput(cmd, func(w io.Writer) error {
				return export.WriteGeoJSON(w, g)
			})
		},
	}
	opts.register(cmd)
	return cmd
}
