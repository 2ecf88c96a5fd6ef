// Package discovery finds the coverage artifacts a report should be built from.
//
// Each search directory is scanned for .gcda and .gcno files. When runtime
// output was relocated with GCOV_PREFIX, the mapped directory is scanned for
// .gcda files as well. For every compilation unit only one artifact survives:
// the accumulated counters when they exist, the compile-time notes otherwise.
// Directories are processed one after another on the calling goroutine.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/gcovfind/internal/artifact"
	"github.com/harrison/gcovfind/internal/fileutil"
	"github.com/harrison/gcovfind/internal/gcoverr"
	"github.com/harrison/gcovfind/internal/relocate"
)

// Logger is the subset of logger.ConsoleLogger used during discovery.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogScanProgress(dir string, found, selected int)
}

type nopLogger struct{}

func (nopLogger) LogTrace(string)                  {}
func (nopLogger) LogDebug(string)                  {}
func (nopLogger) LogInfo(string)                   {}
func (nopLogger) LogWarn(string)                   {}
func (nopLogger) LogScanProgress(string, int, int) {}

// Discover scans dirs in order and returns the merged selection.
// With no dirs, the root option is searched. Any missing, explicitly named
// directory aborts the run with a FilesystemError and no partial result.
func Discover(dirs []string, opts Options, log Logger) (*Result, error) {
	if log == nil {
		log = nopLogger{}
	}
	if len(dirs) == 0 {
		dirs = []string{opts.Root()}
	}

	if !opts.Relocating() && opts.GcovPrefixStrip() > 0 {
		log.LogDebug(fmt.Sprintf("Ignoring prefix strip %d: no prefix directory configured", opts.GcovPrefixStrip()))
	}

	if opts.Relocating() {
		info, err := os.Stat(opts.GcovPrefix())
		if err != nil {
			return nil, gcoverr.NewFilesystemError(opts.GcovPrefix(), "unknown prefix directory", err)
		}
		if !info.IsDir() {
			return nil, gcoverr.NewFilesystemError(opts.GcovPrefix(), "prefix path is not a directory", nil)
		}
	}

	result := NewResult()
	for _, dir := range dirs {
		if err := discoverDir(dir, opts, result, log); err != nil {
			return nil, err
		}
	}

	if opts.Verbose() {
		log.LogInfo(fmt.Sprintf("Gathered %d artifact files (%d %s, %d %s)",
			result.Len(),
			result.Count(artifact.Accumulated), artifact.Accumulated,
			result.Count(artifact.InstrumentationOnly), artifact.InstrumentationOnly))
	}
	return result, nil
}

// discoverDir scans one search directory and folds its survivors into result.
func discoverDir(dir string, opts Options, result *Result, log Logger) error {
	if opts.Verbose() {
		log.LogInfo(fmt.Sprintf("Scanning directory %s for gcda/gcno files...", dir))
	}

	primary, err := fileutil.Scan(dir, artifact.AnyPattern)
	if err != nil {
		return err
	}
	reportScanErrors(primary, log)

	found := make([]artifact.Artifact, 0, len(primary.Files))
	for _, path := range primary.Files {
		a, err := artifact.Classify(path)
		if err != nil {
			// A link named like an artifact whose target is not one.
			log.LogWarn(fmt.Sprintf("Skipping %s: %v", path, err))
			continue
		}
		found = append(found, a)
	}

	if opts.Relocating() {
		mapped, err := scanRelocated(dir, primary.Root, opts, log)
		if err != nil {
			return err
		}
		found = append(found, mapped...)
	}

	selected := selectArtifacts(found, result, log)
	for _, a := range selected {
		result.Add(a)
	}

	if opts.Verbose() {
		log.LogScanProgress(dir, len(found), len(selected))
	}
	return nil
}

// scanRelocated scans the prefix-mapped counterpart of dir for accumulated
// artifacts only; relocated runtime output never contains compile-time notes.
// Keys are re-rooted onto canonicalDir so they pair with notes found there.
func scanRelocated(dir, canonicalDir string, opts Options, log Logger) ([]artifact.Artifact, error) {
	source := dir
	if fileutil.IsCurrentDir(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		source = wd
	}

	mapping, err := relocate.Resolve(source, opts.GcovPrefix(), opts.GcovPrefixStrip())
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(mapping.Dir); err != nil || !info.IsDir() {
		log.LogDebug(fmt.Sprintf("No relocated output for %s at %s", dir, mapping.Dir))
		return nil, nil
	}
	log.LogDebug(fmt.Sprintf("Scanning relocated directory %s (stripped %s)", mapping.Dir, mapping.Removed))

	scan, err := fileutil.Scan(mapping.Dir, artifact.AccumulatedPattern)
	if err != nil {
		return nil, err
	}
	reportScanErrors(scan, log)

	found := make([]artifact.Artifact, 0, len(scan.Files))
	for _, path := range scan.Files {
		keyPath := path
		if rel, err := filepath.Rel(scan.Root, path); err == nil {
			keyPath = filepath.Join(canonicalDir, rel)
		}
		a, err := artifact.ClassifyAs(path, keyPath)
		if err != nil {
			log.LogWarn(fmt.Sprintf("Skipping %s: %v", path, err))
			continue
		}
		found = append(found, a)
	}
	return found, nil
}

// selectArtifacts drops every instrumentation-only artifact whose unit already
// has accumulated data, either in found or in the running result.
func selectArtifacts(found []artifact.Artifact, result *Result, log Logger) []artifact.Artifact {
	accumulated := make(map[artifact.Key]bool)
	for _, a := range found {
		if a.Kind == artifact.Accumulated {
			accumulated[a.Key] = true
		}
	}

	selected := make([]artifact.Artifact, 0, len(found))
	for _, a := range found {
		if a.Kind == artifact.InstrumentationOnly && (accumulated[a.Key] || result.HasAccumulated(a.Key)) {
			log.LogTrace(fmt.Sprintf("Dropping %s: counters present for unit", a.Path))
			continue
		}
		selected = append(selected, a)
	}
	return selected
}

func reportScanErrors(scan *fileutil.ScanResult, log Logger) {
	for _, err := range scan.Errors {
		log.LogWarn(err.Error())
	}
}
