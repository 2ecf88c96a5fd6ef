// Package artifact models the two kinds of coverage data files a gcc-style
// toolchain emits, and the compilation unit each one belongs to.
package artifact

import (
	"fmt"
	"strings"
)

// Kind tags a coverage artifact file.
type Kind int

const (
	// Accumulated is runtime-emitted data carrying execution counts (.gcda).
	Accumulated Kind = iota
	// InstrumentationOnly is compile-time data without counts (.gcno).
	InstrumentationOnly
)

// File suffixes for each kind.
const (
	AccumulatedSuffix         = ".gcda"
	InstrumentationOnlySuffix = ".gcno"
)

// Filename patterns understood by fileutil.Scan.
const (
	// AnyPattern matches either kind.
	AnyPattern = `.*\.gc(da|no)$`
	// AccumulatedPattern matches runtime-emitted files only.
	AccumulatedPattern = `.*\.gcda$`
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Accumulated:
		return "accumulated"
	case InstrumentationOnly:
		return "instrumentation-only"
	default:
		return "unknown"
	}
}

// Suffix returns the filename suffix for the kind.
func (k Kind) Suffix() string {
	if k == Accumulated {
		return AccumulatedSuffix
	}
	return InstrumentationOnlySuffix
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Key identifies a compilation unit: the artifact path without its kind suffix.
type Key string

// Artifact is a discovered coverage file.
type Artifact struct {
	Path string `json:"path" yaml:"path"`
	Kind Kind   `json:"kind" yaml:"kind"`
	Key  Key    `json:"-" yaml:"-"`
}

// Classify tags path by its suffix. The key is derived from path itself.
func Classify(path string) (Artifact, error) {
	return ClassifyAs(path, path)
}

// ClassifyAs tags path by its suffix but derives the key from keyPath.
// Relocated counters live away from their build tree; keyPath is where the
// file would have been written without relocation, which ties it back to the
// compile-time artifact of the same unit.
func ClassifyAs(path, keyPath string) (Artifact, error) {
	switch {
	case strings.HasSuffix(path, AccumulatedSuffix):
		return Artifact{
			Path: path,
			Kind: Accumulated,
			Key:  Key(strings.TrimSuffix(keyPath, AccumulatedSuffix)),
		}, nil
	case strings.HasSuffix(path, InstrumentationOnlySuffix):
		return Artifact{
			Path: path,
			Kind: InstrumentationOnly,
			Key:  Key(strings.TrimSuffix(keyPath, InstrumentationOnlySuffix)),
		}, nil
	default:
		return Artifact{}, fmt.Errorf("not a coverage artifact: %s", path)
	}
}

// Supersedes reports whether a should replace b for the same compilation unit.
func (a Artifact) Supersedes(b Artifact) bool {
	return a.Kind == Accumulated && b.Kind == InstrumentationOnly
}
