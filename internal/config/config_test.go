package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/harrison/gcovfind/internal/gcoverr"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Root != "." {
		t.Errorf("Root = %q, want %q", cfg.Root, ".")
	}
	if cfg.GcovPrefix != "" {
		t.Errorf("GcovPrefix = %q, want empty", cfg.GcovPrefix)
	}
	if cfg.GcovPrefixStrip != 0 {
		t.Errorf("GcovPrefixStrip = %d, want 0", cfg.GcovPrefixStrip)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Verbose {
		t.Error("Verbose = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	configContent := `root: src
search_dirs:
  - build
  - /abs/objs
gcov_prefix: /tmp/pfx
gcov_prefix_strip: 3
filters:
  - '^/proj/'
excludes:
  - '_test\.gcda$'
verbose: true
log_level: debug
format: json
output: out/manifest.json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Root != filepath.Join(tmpDir, "src") {
		t.Errorf("Root = %q, want %q", cfg.Root, filepath.Join(tmpDir, "src"))
	}
	wantDirs := []string{filepath.Join(tmpDir, "build"), "/abs/objs"}
	if !reflect.DeepEqual(cfg.SearchDirs, wantDirs) {
		t.Errorf("SearchDirs = %v, want %v", cfg.SearchDirs, wantDirs)
	}
	if cfg.GcovPrefix != "/tmp/pfx" {
		t.Errorf("GcovPrefix = %q, want /tmp/pfx", cfg.GcovPrefix)
	}
	if cfg.GcovPrefixStrip != 3 {
		t.Errorf("GcovPrefixStrip = %d, want 3", cfg.GcovPrefixStrip)
	}
	if !reflect.DeepEqual(cfg.Filters, []string{`^/proj/`}) {
		t.Errorf("Filters = %v", cfg.Filters)
	}
	if !reflect.DeepEqual(cfg.Excludes, []string{`_test\.gcda$`}) {
		t.Errorf("Excludes = %v", cfg.Excludes)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Output != filepath.Join(tmpDir, "out", "manifest.json") {
		t.Errorf("Output = %q", cfg.Output)
	}
}

// TestLoadConfigMissingFile verifies defaults are returned when the file is absent
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

// TestLoadConfigPartialFile verifies unspecified values keep their defaults
func TestLoadConfigPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("verbose: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.Root != "." || cfg.Format != "text" || cfg.LogLevel != "info" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

// TestLoadConfigMalformed verifies a malformed file is a configuration error
func TestLoadConfigMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("filters: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("LoadConfig() expected error, got nil")
	}
	if !gcoverr.IsConfiguration(err) {
		t.Errorf("LoadConfig() error = %v, want ConfigurationError", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvGcovPrefix:      "/tmp/pfx",
		EnvGcovPrefixStrip: " 2 ",
	}
	getenv := func(k string) string { return env[k] }

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(getenv); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.GcovPrefix != "/tmp/pfx" || cfg.GcovPrefixStrip != 2 {
		t.Errorf("ApplyEnv() = %q/%d, want /tmp/pfx/2", cfg.GcovPrefix, cfg.GcovPrefixStrip)
	}

	// Values from the config file are not overridden by the environment.
	fromFile := DefaultConfig()
	fromFile.GcovPrefix = "/from/file"
	fromFile.GcovPrefixStrip = 5
	if err := fromFile.ApplyEnv(getenv); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if fromFile.GcovPrefix != "/from/file" || fromFile.GcovPrefixStrip != 5 {
		t.Errorf("ApplyEnv() overrode file values: %q/%d", fromFile.GcovPrefix, fromFile.GcovPrefixStrip)
	}

	bad := DefaultConfig()
	err := bad.ApplyEnv(func(k string) string {
		if k == EnvGcovPrefixStrip {
			return "two"
		}
		return ""
	})
	if !gcoverr.IsConfiguration(err) {
		t.Errorf("ApplyEnv() error = %v, want ConfigurationError", err)
	}
}

// TestApplyEnvStripOnly verifies that a strip count without a prefix root is accepted and inert
func TestApplyEnvStripOnly(t *testing.T) {
	cfg := DefaultConfig()
	getenv := func(key string) string {
		if key == EnvGcovPrefixStrip {
			return "3"
		}
		return ""
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.Relocating() {
		t.Error("Options() should not relocate without a prefix root")
	}
}

// TestMergeWithFlags verifies that non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GcovPrefix = "/from/file"
	cfg.Filters = []string{"file"}

	root := "/proj"
	strip := 4
	excludes := []string{"x"}
	verbose := true
	format := "yaml"

	cfg.MergeWithFlags(&root, nil, &strip, nil, &excludes, &verbose, nil, &format, nil)

	if cfg.Root != "/proj" {
		t.Errorf("Root = %q, want /proj", cfg.Root)
	}
	if cfg.GcovPrefix != "/from/file" {
		t.Errorf("GcovPrefix = %q, want value kept from file", cfg.GcovPrefix)
	}
	if cfg.GcovPrefixStrip != 4 {
		t.Errorf("GcovPrefixStrip = %d, want 4", cfg.GcovPrefixStrip)
	}
	if !reflect.DeepEqual(cfg.Filters, []string{"file"}) {
		t.Errorf("Filters = %v, want kept", cfg.Filters)
	}
	if !reflect.DeepEqual(cfg.Excludes, []string{"x"}) {
		t.Errorf("Excludes = %v", cfg.Excludes)
	}
	if !cfg.Verbose || cfg.Format != "yaml" || cfg.LogLevel != "info" {
		t.Errorf("unexpected merge result: %+v", cfg)
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    string
	}{
		{"info", false, "info"},
		{"info", true, "debug"},
		{"warn", true, "warn"},
		{"trace", true, "trace"},
		{"", false, "info"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.LogLevel = tt.level
		cfg.Verbose = tt.verbose
		if got := cfg.EffectiveLogLevel(); got != tt.want {
			t.Errorf("EffectiveLogLevel(%q, verbose=%v) = %q, want %q", tt.level, tt.verbose, got, tt.want)
		}
	}
}

// TestValidate covers every rejected configuration value
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Root = " " }, "root"},
		{"negative strip", func(c *Config) { c.GcovPrefixStrip = -1 }, "must be >= 0"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"empty search dir", func(c *Config) { c.SearchDirs = []string{"a", ""} }, "entry 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !gcoverr.IsConfiguration(err) {
				t.Errorf("Validate() error = %v, want ConfigurationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestOptions verifies the immutable discovery options are built from the config
func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "/proj"
	cfg.Excludes = []string{`_test\.gcda$`}
	cfg.GcovPrefix = "/tmp/pfx"
	cfg.GcovPrefixStrip = 2
	cfg.Verbose = true

	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.Root() != "/proj" || opts.GcovPrefix() != "/tmp/pfx" || opts.GcovPrefixStrip() != 2 || !opts.Verbose() {
		t.Errorf("Options() = %+v", opts)
	}
	if opts.Filters().IsSelected("/proj/mod_test.gcda") {
		t.Error("exclusion not compiled into options")
	}

	// Mutating the config afterwards does not affect the built options.
	cfg.Excludes[0] = "nothing"
	if opts.Filters().IsSelected("/proj/mod_test.gcda") {
		t.Error("options changed after config mutation")
	}

	cfg.Filters = []string{"("}
	if _, err := cfg.Options(); !gcoverr.IsConfiguration(err) {
		t.Errorf("Options() error = %v, want ConfigurationError", err)
	}
}
