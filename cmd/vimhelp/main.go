package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vimhelp",
		Short: "Resolve Neovim help queries to help tags",
		Long: `vimhelp resolves loosely typed Neovim help queries (^N, :cd, 'wildmenu', *)
to the best matching tag in a Neovim doc/tags file, the way :help does.

It runs as an MCP server on stdio for chat bots and editors, or answers
lookups directly from the shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/vimhelp/config.yaml)")
	rootCmd.PersistentFlags().String("tags", "", "Neovim doc/tags file (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newServeCmd(),
		newLookupCmd(),
		newCandidatesCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
