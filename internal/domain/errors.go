package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSearchBackend signals that the index or the database is unreachable or rejected the query.
	ErrSearchBackend = errors.New("search backend error")
	// ErrValidationGap signals malformed accumulator state (placeholder/binding mismatch).
	// It is a programming defect, never a recoverable runtime condition.
	ErrValidationGap = errors.New("validation gap")
	// ErrInvalidQuery signals invalid search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// Backend names used in BackendError.
const (
	BackendIndex  = "index"
	BackendLegacy = "legacy"
)

// BackendError wraps a failure of a search backend call with the backend name and operation.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrSearchBackend.Error(), e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is reports ErrSearchBackend as a match so callers can test with errors.Is.
func (e *BackendError) Is(target error) bool { return target == ErrSearchBackend }

// NewBackendError creates a backend error.
func NewBackendError(backend, op string, err error) error {
	return &BackendError{Backend: backend, Op: op, Err: err}
}
