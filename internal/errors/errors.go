// Package errors provides the error taxonomy for class indexing.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location names the offending coordinate, archive path, or config value.
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the sentinel this error belongs to.
	Cause error

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the sentinel cause and the underlying error.
func (e *DetailError) Unwrap() []error {
	var errs []error
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewConfigurationError creates a configuration error naming the offending value.
func NewConfigurationError(message, location, hint string) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrConfiguration,
	}
}

// NewResolutionError creates an artifact resolution error for a coordinate.
func NewResolutionError(message, coordinate string, context map[string]string, hint string) error {
	return &DetailError{
		Type:     "artifact not resolved",
		Message:  message,
		Location: coordinate,
		Context:  context,
		Hint:     hint,
		Cause:    ErrResolution,
	}
}

// NewArchiveReadError creates an archive read error wrapping an I/O failure.
func NewArchiveReadError(path string, err error) error {
	return &DetailError{
		Type:     "archive read failed",
		Message:  "cannot read archive",
		Location: path,
		Cause:    ErrArchiveRead,
		Err:      err,
	}
}

// NewClassParseError creates a class parse error for an entry of an archive.
func NewClassParseError(location string, err error) error {
	return &DetailError{
		Type:     "class parse failed",
		Message:  "malformed class file",
		Location: location,
		Cause:    ErrClassParse,
		Err:      err,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
