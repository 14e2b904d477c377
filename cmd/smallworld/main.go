// Package main provides the smallworld CLI entry point.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// configPath overrides the config search when set via --config.
var configPath string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smallworld",
	Short: "Interactive force-directed layout for service topologies",
	Long: `smallworld lays out service dependency graphs with a force-directed
relaxation and serves an interactive view (pan, zoom, drag, select) over
HTTP and websocket.

Topology snapshots come from the analysis backend as JSON or YAML:
services, weighted call edges, and recommended shortcut pairs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.Version = Version
}
