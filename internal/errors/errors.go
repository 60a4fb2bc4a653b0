package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/metaflow/internal/logger"
)

var (
	// ErrIOFailure is returned when the underlying key-value store fails to read or write
	ErrIOFailure = stderrors.New("storage I/O failure")
	// ErrNotFound is returned when a mutation targets an id that is not in its collection
	ErrNotFound = stderrors.New("not found")
	// ErrColumnNotEmpty is returned when deleting a column that still holds tasks
	ErrColumnNotEmpty = stderrors.New("cannot delete a column that still contains tasks")
	// ErrInvalidImportPayload is returned when an import document fails the shape check
	ErrInvalidImportPayload = stderrors.New("invalid import payload")
	// ErrInvalid is returned when an entity fails validation before a write
	ErrInvalid = stderrors.New("invalid record")
)

// Is and As re-export the standard helpers so callers need a single errors import.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)

// NotFound wraps ErrNotFound with the kind and id of the missing record
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Invalid wraps ErrInvalid with a formatted reason
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// IO wraps ErrIOFailure with the operation and key that failed
func IO(op, key string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, key, ErrIOFailure, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
