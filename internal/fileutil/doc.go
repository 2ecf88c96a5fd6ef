// Package fileutil provides the recursive file scanner used for coverage artifact discovery.
//
// # Purpose
//
// Scan walks a directory tree to unbounded depth and returns the absolute,
// symlink-resolved paths of every file whose name matches a regular expression.
// The expression is anchored at the start of the filename, so ".*\.gcda$"
// selects counter files while "foo" only selects names beginning with "foo".
//
// # Path Canonicalization
//
// The scan root itself is resolved with filepath.EvalSymlinks before walking,
// and symlinked files are replaced by the canonical path of their target. Two
// links to the same artifact, reached from different roots, therefore produce
// the same string and collapse to a single entry once merged into a set.
// Symlinked directories are not followed.
//
// # Error Handling
//
// Only a missing or non-directory root is fatal (gcoverr.FilesystemError).
// The empty string and "." stand for the current working directory and are
// never reported missing. Problems below the root (an unreadable
// subdirectory, a dangling link) are collected in ScanResult.Errors and the
// walk continues.
//
// # Usage
//
//	result, err := fileutil.Scan("build", `.*\.gc(da|no)$`)
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// Files are sorted and deduplicated, so repeated scans of an unchanged tree
// return identical results.
package fileutil
