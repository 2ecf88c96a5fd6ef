// Package filter compiles inclusion and exclusion patterns into path predicates.
//
// A Set selects a path when it matches at least one inclusion pattern and no
// exclusion pattern. When the caller supplies no inclusion pattern, a default
// one is synthesized from the project root so that only files below the root
// are ever eligible.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/gcovfind/internal/gcoverr"
)

// Set holds compiled inclusion and exclusion predicates. It is immutable once built.
type Set struct {
	root     string
	includes []*regexp.Regexp
	excludes []*regexp.Regexp
}

// Compile builds a Set from raw patterns.
// All patterns are compiled up front; a malformed pattern or an empty root
// yields a ConfigurationError before any filesystem traversal happens.
func Compile(includes, excludes []string, root string) (*Set, error) {
	if strings.TrimSpace(root) == "" {
		return nil, gcoverr.NewConfigurationError("root", "root directory must not be empty", nil)
	}

	canonical := CanonicalRoot(root)
	set := &Set{root: canonical}

	if len(includes) == 0 {
		set.includes = append(set.includes, regexp.MustCompile("^"+regexp.QuoteMeta(withSeparator(canonical))))
	}
	for _, p := range includes {
		re, err := compilePattern("filter", p)
		if err != nil {
			return nil, err
		}
		set.includes = append(set.includes, re)
	}
	for _, p := range excludes {
		re, err := compilePattern("exclude", p)
		if err != nil {
			return nil, err
		}
		set.excludes = append(set.excludes, re)
	}

	return set, nil
}

func compilePattern(option, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, gcoverr.NewConfigurationError(option, fmt.Sprintf("invalid pattern %q", pattern), err)
	}
	return re, nil
}

// CanonicalRoot returns root as an absolute path with symlinks resolved.
// A root that cannot be resolved (e.g. not yet created) is returned cleaned and absolute.
func CanonicalRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

// Root returns the canonical root the Set was compiled against.
func (s *Set) Root() string {
	return s.root
}

// IsSelected reports whether path passes the filters: included AND NOT excluded.
func (s *Set) IsSelected(path string) bool {
	return s.IsIncluded(path) && !s.IsExcluded(path)
}

// IsIncluded reports whether path matches any inclusion pattern.
func (s *Set) IsIncluded(path string) bool {
	return matchesAny(s.includes, path)
}

// IsExcluded reports whether path, or its root-relative form, matches any exclusion pattern.
func (s *Set) IsExcluded(path string) bool {
	if matchesAny(s.excludes, path) {
		return true
	}
	if rel, ok := s.relative(path); ok {
		return matchesAny(s.excludes, rel)
	}
	return false
}

// Relative strips the root prefix from path for display.
// Paths outside the root are returned unchanged.
func (s *Set) Relative(path string) string {
	if rel, ok := s.relative(path); ok {
		return rel
	}
	return path
}

func (s *Set) relative(path string) (string, bool) {
	prefix := withSeparator(s.root)
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return strings.TrimPrefix(path, prefix), true
}

// Patterns returns the source text of the compiled inclusion and exclusion patterns.
func (s *Set) Patterns() (includes, excludes []string) {
	for _, re := range s.includes {
		includes = append(includes, re.String())
	}
	for _, re := range s.excludes {
		excludes = append(excludes, re.String())
	}
	return includes, excludes
}

func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
