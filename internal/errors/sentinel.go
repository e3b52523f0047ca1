package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for known conditions.
var (
	// ErrNotFound indicates a class, resource, or archive was not found.
	ErrNotFound = errors.New("not found")

	// ErrConfiguration indicates malformed or conflicting indexing configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrResolution indicates no classpath entry matched a requested coordinate.
	// It also matches ErrNotFound.
	ErrResolution = fmt.Errorf("artifact resolution error: %w", ErrNotFound)

	// ErrArchiveRead indicates an I/O failure opening or reading an archive or directory.
	ErrArchiveRead = errors.New("archive read error")

	// ErrClassParse indicates malformed class file bytes.
	ErrClassParse = errors.New("class parse error")
)
