package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"road_simplify/pkg/overpass"
)

func newDownloadCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <area>",
		Short: "Download raw OSM XML for a named area from Overpass",
		Long: `Download the road network of a named area (e.g. "Paris") from the Overpass API.

The response is written to <area>.osm unless --output is given. Transient
failures (busy server, gateway timeouts) are retried with backoff.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(a.v, cmd.Flags(), map[string]string{
				keyFilter:   "filter",
				keyEndpoint: "endpoint",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			area := args[0]
			if output == "" {
				output = area + ".osm"
			}
			logger := loggerFromContext(cmd.Context())

			client := overpass.NewClient()
			client.Endpoint = a.v.GetString(keyEndpoint)
			client.Logger = logger

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			prog := newProgress(logger)
			if err := client.Download(cmd.Context(), area, a.v.GetString(keyFilter), f); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			prog.done(fmt.Sprintf("Downloaded %s to %s", area, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <area>.osm)")
	cmd.Flags().String("filter", "", "Overpass QL filter statement")
	cmd.Flags().String("endpoint", "", "Overpass interpreter URL")
	return cmd
}
