package cli

import (
	"github.com/spf13/cobra"

	"road_simplify/pkg/api"
)

func newServeCmd(a *app) *cobra.Command {
	var opts ioOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a graph and the simplification pipeline over HTTP",
		Long: `Load a record graph and serve it under /api/v1:

  GET  /health, /stats, /nearest?lat=&lng=, /geojson
  POST /simplify?delta=&seed=, /discretize?delta=  (records in, records out)

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(a.v, cmd.Flags(), map[string]string{
				keyAddr:       "addr",
				keyCORSOrigin: "cors-origin",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := separatorFrom(a.v)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			g, err := opts.readGraph(cmd, sep)
			if err != nil {
				return err
			}
			logger.Info("graph loaded", "nodes", g.NumNodes(), "links", len(g.Edges()))

			cfg := api.DefaultConfig(a.v.GetString(keyAddr))
			cfg.CORSOrigin = a.v.GetString(keyCORSOrigin)
			cfg.Logger = logger
			h := api.NewHandlers(g, api.HandlerOptions{Separator: sep, Logger: logger})
			return api.ListenAndServe(cmd.Context(), api.NewServer(cfg, h), logger)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "graph records (default stdin)")
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("cors-origin", "", "Access-Control-Allow-Origin value")
	return cmd
}
