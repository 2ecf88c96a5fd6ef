package discovery

import (
	"sort"

	"github.com/harrison/gcovfind/internal/artifact"
	"github.com/harrison/gcovfind/internal/filter"
)

// Result is the deduplicated set of artifacts accumulated across search directories.
// It holds at most one artifact per compilation unit and lists every path once.
type Result struct {
	byKey  map[artifact.Key]artifact.Artifact
	byPath map[string]artifact.Key
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{
		byKey:  make(map[artifact.Key]artifact.Artifact),
		byPath: make(map[string]artifact.Key),
	}
}

// Add merges a into the set and reports whether the set changed.
// An accumulated artifact replaces an instrumentation-only one for the same
// unit; otherwise the artifact already present is kept. A path already in the
// set is never added again, even under another unit key: relocated counters
// can be reached from several search directories.
func (r *Result) Add(a artifact.Artifact) bool {
	if _, ok := r.byPath[a.Path]; ok {
		return false
	}
	existing, ok := r.byKey[a.Key]
	if ok && !a.Supersedes(existing) {
		return false
	}
	if ok {
		delete(r.byPath, existing.Path)
	}
	r.byKey[a.Key] = a
	r.byPath[a.Path] = a.Key
	return true
}

// HasAccumulated reports whether an accumulated artifact is recorded for key.
func (r *Result) HasAccumulated(key artifact.Key) bool {
	a, ok := r.byKey[key]
	return ok && a.Kind == artifact.Accumulated
}

// Len returns the number of artifacts in the set.
func (r *Result) Len() int {
	return len(r.byKey)
}

// Count returns the number of artifacts of the given kind.
func (r *Result) Count(kind artifact.Kind) int {
	n := 0
	for _, a := range r.byKey {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Contains reports whether path is in the set.
func (r *Result) Contains(path string) bool {
	_, ok := r.byPath[path]
	return ok
}

// Artifacts returns the artifacts sorted by path.
func (r *Result) Artifacts() []artifact.Artifact {
	out := make([]artifact.Artifact, 0, len(r.byKey))
	for _, a := range r.byKey {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns the artifact paths, sorted.
func (r *Result) Paths() []string {
	return paths(r.Artifacts())
}

// Filtered returns the sorted artifacts that pass fs.
// A nil filter set selects everything.
func (r *Result) Filtered(fs *filter.Set) []artifact.Artifact {
	all := r.Artifacts()
	if fs == nil {
		return all
	}
	out := make([]artifact.Artifact, 0, len(all))
	for _, a := range all {
		if fs.IsSelected(a.Path) {
			out = append(out, a)
		}
	}
	return out
}

func paths(artifacts []artifact.Artifact) []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.Path
	}
	return out
}
