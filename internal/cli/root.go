package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. It is
// called by main with values injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app holds state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

// Execute runs the osmgraph CLI.
func Execute() error {
	return newRootCmd(viper.New()).ExecuteContext(context.Background())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}

	root := &cobra.Command{
		Use:          "osmgraph",
		Short:        "osmgraph turns OpenStreetMap roads into a simplified graph",
		Long:         `osmgraph downloads OpenStreetMap data, extracts the road network as node and link records, and simplifies it with distance-threshold heuristics.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if err := loadConfig(a.v, a.cfgFile); err != nil {
				return err
			}
			if err := bindFlags(a.v, cmd.Root().PersistentFlags(), map[string]string{
				keySeparator:     "separator",
				keyDistributions: "distributions",
			}); err != nil {
				return err
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				logger.Debug("using config", "file", used)
			}
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("osmgraph %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.osmgraph.yaml)")
	flags.String("separator", "", "record field separator (default ␟)")
	flags.String("distributions", "", "directory receiving per-step distribution files")

	root.AddCommand(newDownloadCmd(a))
	root.AddCommand(newFormatCmd())
	root.AddCommand(newNodesCmd(a))
	root.AddCommand(newLinksCmd(a))
	root.AddCommand(newHeuristicsCmd(a))
	root.AddCommand(newDiscretizeCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newNearestCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}
