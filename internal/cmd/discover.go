package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/gcovfind/internal/config"
	"github.com/harrison/gcovfind/internal/discovery"
	"github.com/harrison/gcovfind/internal/logger"
	"github.com/harrison/gcovfind/internal/manifest"
	"github.com/spf13/cobra"
)

// NewDiscoverCommand creates the discover command
func NewDiscoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [search-dir]...",
		Short: "Find and select coverage artifacts for reporting",
		Long: `Scan one or more directory trees for .gcda and .gcno files and print the
set a coverage report should be built from.

For every compilation unit only one file is selected: the runtime counters
(.gcda) when present, otherwise the compile-time notes (.gcno). Symlinks are
resolved, so the same file reached through different paths is listed once.

When the program under test ran with GCOV_PREFIX / GCOV_PREFIX_STRIP, pass the
same values with --gcov-prefix and --gcov-prefix-strip (or leave them in the
environment) and the relocated counters are picked up as well.

With no search directories, the root directory is searched. Only files below
the root are selected unless --filter patterns are given.

Configuration is loaded from .gcovfind.yaml in the root directory if present.
CLI flags override configuration file settings.

Examples:
  # Current directory
  gcovfind discover

  # Separate build tree, report only sources below the project
  gcovfind discover --root ~/proj ~/proj/build

  # Counters relocated by the runtime
  gcovfind discover --gcov-prefix /tmp/cov --gcov-prefix-strip 3 build/

  # Skip test objects, write a JSON manifest for the report engine
  gcovfind discover -e '_test\.gcda$' --format json -o coverage-files.json`,
		RunE: discoverCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <root>/.gcovfind.yaml)")
	cmd.Flags().StringP("root", "r", ".", "Project root; only files below it are selected by default")
	cmd.Flags().String("gcov-prefix", "", "Directory the runtime relocated .gcda files to (default: $GCOV_PREFIX)")
	cmd.Flags().Int("gcov-prefix-strip", 0, "Leading path segments the runtime stripped (default: $GCOV_PREFIX_STRIP)")
	cmd.Flags().StringArrayP("filter", "f", nil, "Keep only files matching this regular expression (repeatable)")
	cmd.Flags().StringArrayP("exclude", "e", nil, "Drop files matching this regular expression (repeatable)")
	cmd.Flags().BoolP("verbose", "v", false, "Print per-directory progress")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("format", "", "Output format: text, json, yaml (default: text)")
	cmd.Flags().StringP("output", "o", "", "Write the manifest to this file instead of stdout")
	cmd.Flags().Bool("all", false, "List every discovered file, ignoring --filter/--exclude")
	cmd.Flags().Bool("relative", false, "Print paths relative to the root")
	cmd.Flags().Bool("checksum", false, "Record a BLAKE3 digest of every listed file (json/yaml output)")

	return cmd
}

// discoverCommand implements the discover command logic
func discoverCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadDiscoverConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.EffectiveLogLevel())

	dirs := args
	if len(dirs) == 0 {
		dirs = cfg.SearchDirs
	}

	result, err := discovery.Discover(dirs, opts, log)
	if err != nil {
		log.LogError("Discovery aborted, no manifest written")
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	relative, _ := cmd.Flags().GetBool("relative")
	m := manifest.New(result, opts.Filters(), all, relative)

	if checksum, _ := cmd.Flags().GetBool("checksum"); checksum {
		if err := m.AddDigests(); err != nil {
			return err
		}
	}

	if err := m.Write(cmd.OutOrStdout(), cfg.Output, cfg.Format); err != nil {
		log.LogError(fmt.Sprintf("Discovered %d artifact files but could not write the manifest", m.Counts.Discovered))
		return err
	}
	if cfg.Output != "" {
		log.LogInfo(fmt.Sprintf("Wrote %d of %d artifact files to %s", m.Counts.Selected, m.Counts.Discovered, cfg.Output))
	}
	return nil
}

// loadDiscoverConfig layers defaults, config file, environment and flags.
func loadDiscoverConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	rootFlag, _ := flags.GetString("root")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(rootFlag)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	var (
		root, gcovPrefix, logLevel, format, output *string
		gcovPrefixStrip                            *int
		filters, excludes                          *[]string
		verbose                                    *bool
	)

	if flags.Changed("root") {
		root = &rootFlag
	}
	if flags.Changed("gcov-prefix") {
		v, _ := flags.GetString("gcov-prefix")
		gcovPrefix = &v
	}
	if flags.Changed("gcov-prefix-strip") {
		v, _ := flags.GetInt("gcov-prefix-strip")
		gcovPrefixStrip = &v
	}
	if flags.Changed("filter") {
		v, _ := flags.GetStringArray("filter")
		filters = &v
	}
	if flags.Changed("exclude") {
		v, _ := flags.GetStringArray("exclude")
		excludes = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		format = &v
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		output = &v
	}

	cfg.MergeWithFlags(root, gcovPrefix, gcovPrefixStrip, filters, excludes, verbose, logLevel, format, output)
	return cfg, nil
}

// writeLines prints one entry per line.
func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
