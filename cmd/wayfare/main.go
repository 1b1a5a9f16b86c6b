package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wayfare",
		Short: "Inspect and serve wayfare route trees",
		Long: `Wayfare is a hierarchical route resolver.

The CLI works on YAML route files: print the declared tree, resolve
paths to states, build paths from route names, or serve the router
over HTTP and WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		treeCmd(),
		matchCmd(),
		buildCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
