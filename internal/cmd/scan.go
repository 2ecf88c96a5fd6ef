package cmd

import (
	"github.com/harrison/gcovfind/internal/artifact"
	"github.com/harrison/gcovfind/internal/fileutil"
	"github.com/harrison/gcovfind/internal/logger"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir> [filename-pattern]",
		Short: "List files below a directory whose names match a pattern",
		Long: `Walk a directory tree and print the absolute, symlink-resolved path of every
file whose name matches the pattern. The pattern is a regular expression
anchored at the start of the filename.

No artifact precedence or filtering is applied; this is the raw scanner that
discover is built on.

Examples:
  gcovfind scan build/
  gcovfind scan build/ '.*\.gcda$'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := artifact.AnyPattern
			if len(args) == 2 {
				pattern = args[1]
			}

			result, err := fileutil.Scan(args[0], pattern)
			if err != nil {
				return err
			}

			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), "warn")
			for _, e := range result.Errors {
				log.LogWarn(e.Error())
			}

			writeLines(cmd.OutOrStdout(), result.Files)
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
