package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrFileNotFound indicates a required input file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFormat indicates a go.mod line violates the entry grammar
	ErrInvalidFormat = errors.New("invalid go.mod format")

	// ErrInvalidVersion indicates a version is not valid semantic versioning
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrInvalidGraph indicates a dependency graph line is not an edge
	ErrInvalidGraph = errors.New("invalid dependency graph line")

	// ErrGraphFailed indicates the dependency graph command failed
	ErrGraphFailed = errors.New("dependency graph query failed")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrUsage indicates a bad command line invocation
	ErrUsage = errors.New("usage error")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// MissingFileError reports an input file that must exist before parsing
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("can't find %s", e.Path)
}

func (e *MissingFileError) Unwrap() error {
	return ErrFileNotFound
}

// NewMissingFileError creates a new MissingFileError
func NewMissingFileError(path string) *MissingFileError {
	return &MissingFileError{Path: path}
}

// FormatError reports a malformed line inside an open statement block.
// Line is 1-based.
type FormatError struct {
	Line int
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("error parsing go.mod file: line %d: %q", e.Line, e.Text)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// NewFormatError creates a new FormatError
func NewFormatError(line int, text string) *FormatError {
	return &FormatError{
		Line: line,
		Text: text,
	}
}

// VersionParseError reports a version string that is not valid semver
type VersionParseError struct {
	Value string
	Err   error
}

func (e *VersionParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid semantic version %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid semantic version %q", e.Value)
}

// Is lets errors.Is match ErrInvalidVersion while Unwrap exposes the parser error
func (e *VersionParseError) Is(target error) bool {
	return target == ErrInvalidVersion
}

func (e *VersionParseError) Unwrap() error {
	return e.Err
}

// NewVersionParseError creates a new VersionParseError
func NewVersionParseError(value string, err error) *VersionParseError {
	return &VersionParseError{
		Value: value,
		Err:   err,
	}
}

// GraphError represents a failed dependency graph query
type GraphError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *GraphError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *GraphError) Is(target error) bool {
	return target == ErrGraphFailed
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// NewGraphError creates a new GraphError
func NewGraphError(command, stderr string, err error) *GraphError {
	return &GraphError{
		Command: command,
		Stderr:  stderr,
		Err:     err,
	}
}

// UsageError represents a bad CLI invocation
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// IsUsage checks if an error was caused by a bad invocation
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}
