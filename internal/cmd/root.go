package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for gcovfind
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcovfind",
		Short: "Coverage artifact discovery for gcov-based reports",
		Long: `gcovfind locates the .gcda and .gcno files left behind by a gcc/clang
coverage build, across one or more build trees, and selects the set a report
should be generated from.

It resolves symlinks, prefers runtime counters over compile-time notes for
each compilation unit, follows GCOV_PREFIX relocation, and applies inclusion
and exclusion filters before handing the file list to a report engine.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewDiscoverCommand())
	cmd.AddCommand(NewScanCommand())

	return cmd
}
