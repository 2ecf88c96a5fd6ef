// Package gcoverr defines the error categories surfaced by artifact discovery.
//
// Every failure is either a configuration problem, detected before any
// directory is scanned, or a filesystem problem, raised the moment a named
// directory turns out to be missing. Neither is retried.
package gcoverr

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the gcovfind binary for each error category.
const (
	ExitGeneric       = 1
	ExitConfiguration = 2
	ExitFilesystem    = 3
)

// ConfigurationError reports an invalid option, pattern or config file.
type ConfigurationError struct {
	Option  string // Option or setting that was rejected (optional)
	Message string // Human-readable explanation
	Err     error  // Underlying error (optional)
}

// NewConfigurationError creates a ConfigurationError for the named option.
func NewConfigurationError(option, msg string, err error) *ConfigurationError {
	return &ConfigurationError{Option: option, Message: msg, Err: err}
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")
	if e.Option != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Option))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for configuration failures.
func (e *ConfigurationError) ExitCode() int { return ExitConfiguration }

// FilesystemError reports a directory that was explicitly named but is unusable.
type FilesystemError struct {
	Path    string // Directory that could not be used
	Message string // Human-readable explanation
	Err     error  // Underlying error (optional)
}

// NewFilesystemError creates a FilesystemError for path.
func NewFilesystemError(path, msg string, err error) *FilesystemError {
	return &FilesystemError{Path: path, Message: msg, Err: err}
}

// Error implements the error interface for FilesystemError.
func (e *FilesystemError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s '%s'", e.Message, e.Path))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for filesystem failures.
func (e *FilesystemError) ExitCode() int { return ExitFilesystem }

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsFilesystem reports whether err is, or wraps, a FilesystemError.
func IsFilesystem(err error) bool {
	var fe *FilesystemError
	return errors.As(err, &fe)
}

// ExitCodeOf maps an error to a process exit code, defaulting to ExitGeneric.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitGeneric
}
