// Package relocate maps a build directory onto the directory a relocated
// coverage runtime writes to.
//
// When a program is run with GCOV_PREFIX and GCOV_PREFIX_STRIP set, the
// runtime drops the first strip components of each object directory and
// re-roots the remainder under the prefix. Resolve reproduces that mapping so
// the relocated counters can be found next to their build tree.
package relocate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/gcovfind/internal/gcoverr"
)

// Placeholder stands in for the removed prefix when the strip count exceeds
// the number of available path segments.
const Placeholder = "..."

// Mapping describes how a searched directory relocates under a prefix root.
type Mapping struct {
	PrefixRoot string // Directory the runtime output was redirected to
	Strip      int    // Number of leading segments removed
	Removed    string // Removed prefix component, or Placeholder
	Tail       string // Retained segments joined with the path separator
	Dir        string // Final relocated directory: PrefixRoot joined with Tail
}

// Resolve computes the relocated directory for dir.
// A relative dir is made absolute first. A strip count larger than the number
// of segments does not fail: the removed portion collapses to Placeholder and
// the relocated directory is the prefix root itself.
func Resolve(dir, prefixRoot string, strip int) (Mapping, error) {
	if prefixRoot == "" {
		return Mapping{}, gcoverr.NewConfigurationError("gcov-prefix", "prefix root must not be empty", nil)
	}
	if strip < 0 {
		return Mapping{}, gcoverr.NewConfigurationError("gcov-prefix-strip", "strip count must be >= 0", nil)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Mapping{}, gcoverr.NewFilesystemError(dir, "cannot resolve directory", err)
	}

	segments := Segments(abs)
	m := Mapping{PrefixRoot: prefixRoot, Strip: strip}

	if strip > len(segments) {
		m.Removed = Placeholder
		m.Dir = filepath.Clean(prefixRoot)
		return m, nil
	}

	sep := string(os.PathSeparator)
	m.Removed = sep + strings.Join(segments[:strip], sep)
	m.Tail = strings.Join(segments[strip:], sep)
	m.Dir = filepath.Join(prefixRoot, m.Tail)
	return m, nil
}

// Segments splits an absolute path into its non-empty components.
// Any volume name is dropped.
func Segments(path string) []string {
	path = strings.TrimPrefix(path, filepath.VolumeName(path))
	parts := strings.Split(filepath.Clean(path), string(os.PathSeparator))

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
