package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/harrison/gcovfind/internal/gcoverr"
)

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the canonical directory that was walked
	Root string
	// Files contains the absolute, symlink-resolved paths of all matched files
	Files []string
	// Errors contains non-fatal errors encountered during scanning
	Errors []error
}

// IsCurrentDir reports whether dir is the "use the current directory" placeholder.
func IsCurrentDir(dir string) bool {
	return dir == "" || dir == "."
}

// Scan walks root to unbounded depth and returns every file whose name matches
// pattern. The pattern is anchored at the start of the filename.
//
// Symlinked files are reported by the canonical path of their target, so two
// links to one file collapse into a single entry. An empty result is not an error.
func Scan(root, pattern string) (*ScanResult, error) {
	patternRegex, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, gcoverr.NewConfigurationError("pattern", fmt.Sprintf("invalid pattern %q", pattern), err)
	}

	dir, err := canonicalDir(root)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Root:   dir,
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}
	seen := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		if d.IsDir() || !patternRegex.MatchString(d.Name()) {
			return nil
		}

		resolved := path
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err = filepath.EvalSymlinks(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("failed to resolve link %s: %w", path, err))
				return nil
			}
			if info, err := os.Stat(resolved); err == nil && info.IsDir() {
				return nil
			}
		}

		absPath, err := filepath.Abs(resolved)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		if !seen[absPath] {
			seen[absPath] = true
			result.Files = append(result.Files, absPath)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}

// canonicalDir returns root as an absolute, symlink-free directory path.
// The current-directory placeholder is always accepted.
func canonicalDir(root string) (string, error) {
	if IsCurrentDir(root) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", gcoverr.NewFilesystemError(root, "unknown directory", err)
	}
	if !info.IsDir() {
		return "", gcoverr.NewFilesystemError(root, "path is not a directory", nil)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", gcoverr.NewFilesystemError(root, "cannot resolve directory", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", gcoverr.NewFilesystemError(root, "cannot resolve directory", err)
	}
	return resolved, nil
}
