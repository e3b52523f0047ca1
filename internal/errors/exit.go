package errors

import "errors"

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigurationError indicates malformed or conflicting configuration.
	ExitConfigurationError = 2

	// ExitNotFound indicates a class, resource, or artifact was not found.
	ExitNotFound = 5

	// ExitArchiveRead indicates an archive or directory could not be read.
	ExitArchiveRead = 7

	// ExitClassParse indicates a malformed class file.
	ExitClassParse = 8
)

// ExitError carries a process exit code out of the command layer.
type ExitError struct {
	Code int
	Err  error

	// Printed is set when the command already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrConfiguration):
		return ExitConfigurationError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrArchiveRead):
		return ExitArchiveRead
	case errors.Is(err, ErrClassParse):
		return ExitClassParse
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigurationError:
		return "Configuration Error"
	case ExitNotFound:
		return "Not Found"
	case ExitArchiveRead:
		return "Archive Read Error"
	case ExitClassParse:
		return "Class Parse Error"
	default:
		return "Unknown"
	}
}
