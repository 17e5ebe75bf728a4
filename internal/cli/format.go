package cli

import (
	"io"

	"github.com/spf13/cobra"

	"road_simplify/pkg/osm"
)

func newFormatCmd() *cobra.Command {
	var opts ioOpts

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Put every OSM node and way element on a single line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer r.Close()
			return opts.writeOutput(cmd, func(w io.Writer) error {
				return osm.Format(r, w)
			})
		},
	}
	opts.register(cmd)
	return cmd
}
