package action

import (
	"errors"
	"fmt"
)

// ErrNoFilesMatched is returned (wrapped in a FileError) when a glob matches no files.
var ErrNoFilesMatched = errors.New("given glob does not match any files")

// ValidationError describes the first schema violation found in the input.
type ValidationError struct {
	// Field is the input field name, e.g. "key" or "key[id]".
	Field string

	// Message is a human-readable description of the violation.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: field '%s' %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// FileError is returned when input files cannot be found, read or parsed.
type FileError struct {
	// Path is the file being read; empty for glob failures.
	Path string

	// Pattern is the glob pattern being resolved; empty for single files.
	Pattern string

	Err error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("resolve files %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("read file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
