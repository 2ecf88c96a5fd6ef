package discovery

import (
	"github.com/harrison/gcovfind/internal/filter"
	"github.com/harrison/gcovfind/internal/gcoverr"
)

// Params carries the raw, uncompiled discovery settings.
type Params struct {
	// Root is the project root; "" or "." means the current directory
	Root string
	// Filters are inclusion patterns; empty means "everything below Root"
	Filters []string
	// Excludes are exclusion patterns
	Excludes []string
	// GcovPrefix is the directory runtime counters were relocated to (optional)
	GcovPrefix string
	// GcovPrefixStrip is the number of leading segments the runtime stripped
	GcovPrefixStrip int
	// Verbose enables per-directory progress output
	Verbose bool
}

// Options is the immutable, validated form of Params.
// Filters are compiled when the value is built and never change afterwards.
type Options struct {
	root        string
	gcovPrefix  string
	prefixStrip int
	filters     *filter.Set
	verbose     bool
}

// NewOptions validates p and compiles its filters.
// Every failure is a ConfigurationError and happens before any directory is read.
func NewOptions(p Params) (Options, error) {
	root := p.Root
	if root == "" {
		root = "."
	}

	if p.GcovPrefixStrip < 0 {
		return Options{}, gcoverr.NewConfigurationError("gcov-prefix-strip", "strip count must be >= 0", nil)
	}

	filters, err := filter.Compile(p.Filters, p.Excludes, root)
	if err != nil {
		return Options{}, err
	}

	return Options{
		root:        root,
		gcovPrefix:  p.GcovPrefix,
		prefixStrip: p.GcovPrefixStrip,
		filters:     filters,
		verbose:     p.Verbose,
	}, nil
}

// Root returns the root directory as given; "." when defaulted.
func (o Options) Root() string { return o.root }

// Filters returns the compiled filter set.
func (o Options) Filters() *filter.Set { return o.filters }

// GcovPrefix returns the relocation prefix root, or "" when relocation is off.
func (o Options) GcovPrefix() string { return o.gcovPrefix }

// GcovPrefixStrip returns the relocation strip count.
// It has no effect unless a prefix root is configured.
func (o Options) GcovPrefixStrip() int { return o.prefixStrip }

// Verbose reports whether progress output was requested.
func (o Options) Verbose() bool { return o.verbose }

// Relocating reports whether a prefix root is configured.
func (o Options) Relocating() bool { return o.gcovPrefix != "" }
