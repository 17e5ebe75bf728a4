// Command osmgraph builds and simplifies road graphs from OpenStreetMap data.
package main

import (
	"os"

	"road_simplify/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
