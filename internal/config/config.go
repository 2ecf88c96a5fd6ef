package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/gcovfind/internal/discovery"
	"github.com/harrison/gcovfind/internal/gcoverr"
	"github.com/harrison/gcovfind/internal/logger"
)

// FileName is the per-project configuration file looked up in the root directory.
const FileName = ".gcovfind.yaml"

// Environment variables read by the coverage runtime to relocate counter files.
const (
	EnvGcovPrefix      = "GCOV_PREFIX"
	EnvGcovPrefixStrip = "GCOV_PREFIX_STRIP"
)

// Output formats understood by the manifest writer.
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Config represents gcovfind configuration options
type Config struct {
	// Root is the project root; only files below it are selected by default
	Root string `yaml:"root"`

	// SearchDirs are the directories scanned for artifacts (default: Root)
	SearchDirs []string `yaml:"search_dirs"`

	// GcovPrefix is the directory runtime counters were relocated to
	GcovPrefix string `yaml:"gcov_prefix"`

	// GcovPrefixStrip is the number of leading path segments the runtime stripped
	GcovPrefixStrip int `yaml:"gcov_prefix_strip"`

	// Filters are inclusion regular expressions (default: everything below Root)
	Filters []string `yaml:"filters"`

	// Excludes are exclusion regular expressions
	Excludes []string `yaml:"excludes"`

	// Verbose enables per-directory progress output
	Verbose bool `yaml:"verbose"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Format selects the manifest format (text, json, yaml)
	Format string `yaml:"format"`

	// Output is the manifest file path; empty writes to stdout
	Output string `yaml:"output"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Root:            ".",
		GcovPrefixStrip: 0,
		LogLevel:        "info",
		Format:          "text",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns a ConfigurationError
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gcoverr.NewConfigurationError("config", fmt.Sprintf("failed to read config file %s", path), err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, gcoverr.NewConfigurationError("config", fmt.Sprintf("failed to parse config file %s", path), err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.Root != "" {
		cfg.Root = fileCfg.Root
	}
	if len(fileCfg.SearchDirs) > 0 {
		cfg.SearchDirs = fileCfg.SearchDirs
	}
	if fileCfg.GcovPrefix != "" {
		cfg.GcovPrefix = fileCfg.GcovPrefix
	}
	if fileCfg.GcovPrefixStrip != 0 {
		cfg.GcovPrefixStrip = fileCfg.GcovPrefixStrip
	}
	if len(fileCfg.Filters) > 0 {
		cfg.Filters = fileCfg.Filters
	}
	if len(fileCfg.Excludes) > 0 {
		cfg.Excludes = fileCfg.Excludes
	}
	if fileCfg.Verbose {
		cfg.Verbose = true
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Format != "" {
		cfg.Format = fileCfg.Format
	}
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}

	// Relative paths in the file are relative to the file, not the working directory
	base := filepath.Dir(path)
	cfg.SearchDirs = resolveAll(base, cfg.SearchDirs)
	if fileCfg.Root != "" {
		cfg.Root = resolve(base, cfg.Root)
	}
	if fileCfg.GcovPrefix != "" {
		cfg.GcovPrefix = resolve(base, cfg.GcovPrefix)
	}
	if fileCfg.Output != "" {
		cfg.Output = resolve(base, cfg.Output)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .gcovfind.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func resolveAll(base string, paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolve(base, p)
	}
	return out
}

// ApplyEnv fills relocation settings from the runtime's own environment
// variables. Values already set are kept; flags are merged afterwards and win.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if c.GcovPrefix == "" {
		c.GcovPrefix = getenv(EnvGcovPrefix)
	}
	if c.GcovPrefixStrip == 0 {
		if raw := strings.TrimSpace(getenv(EnvGcovPrefixStrip)); raw != "" {
			strip, err := strconv.Atoi(raw)
			if err != nil {
				return gcoverr.NewConfigurationError(EnvGcovPrefixStrip, fmt.Sprintf("invalid strip count %q", raw), err)
			}
			c.GcovPrefixStrip = strip
		}
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(root *string, gcovPrefix *string, gcovPrefixStrip *int, filters *[]string, excludes *[]string, verbose *bool, logLevel *string, format *string, output *string) {
	if root != nil {
		c.Root = *root
	}
	if gcovPrefix != nil {
		c.GcovPrefix = *gcovPrefix
	}
	if gcovPrefixStrip != nil {
		c.GcovPrefixStrip = *gcovPrefixStrip
	}
	if filters != nil {
		c.Filters = *filters
	}
	if excludes != nil {
		c.Excludes = *excludes
	}
	if verbose != nil {
		c.Verbose = *verbose
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if format != nil {
		c.Format = *format
	}
	if output != nil {
		c.Output = *output
	}
}

// EffectiveLogLevel returns the level the console logger should use.
// Verbose mode lowers an info threshold to debug.
func (c *Config) EffectiveLogLevel() string {
	level := logger.NormalizeLogLevel(c.LogLevel)
	if c.Verbose && level == "info" {
		return "debug"
	}
	return level
}

// Validate validates the configuration values
// Returns a ConfigurationError if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return gcoverr.NewConfigurationError("root", "root directory must not be empty", nil)
	}

	if c.GcovPrefixStrip < 0 {
		return gcoverr.NewConfigurationError("gcov-prefix-strip", fmt.Sprintf("must be >= 0, got %d", c.GcovPrefixStrip), nil)
	}

	if c.LogLevel != "" && !logger.ValidLogLevel(c.LogLevel) {
		return gcoverr.NewConfigurationError("log-level", fmt.Sprintf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel), nil)
	}

	if !validFormats[c.Format] {
		return gcoverr.NewConfigurationError("format", fmt.Sprintf("invalid format %q, must be one of: text, json, yaml", c.Format), nil)
	}

	for i, dir := range c.SearchDirs {
		if strings.TrimSpace(dir) == "" {
			return gcoverr.NewConfigurationError("search_dirs", fmt.Sprintf("entry %d is empty", i), nil)
		}
	}

	return nil
}

// Options validates the configuration and builds the immutable discovery options.
func (c *Config) Options() (discovery.Options, error) {
	if err := c.Validate(); err != nil {
		return discovery.Options{}, err
	}
	return discovery.NewOptions(discovery.Params{
		Root:            c.Root,
		Filters:         c.Filters,
		Excludes:        c.Excludes,
		GcovPrefix:      c.GcovPrefix,
		GcovPrefixStrip: c.GcovPrefixStrip,
		Verbose:         c.Verbose,
	})
}
