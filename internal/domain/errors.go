package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidStateError indicates an operation was attempted in a state
	// that does not allow it (e.g. submitting while a reply is streaming)
	InvalidStateError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *InvalidStateError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *InvalidStateError) StatusCode() int { return http.StatusConflict }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is a precondition violation: the caller invoked an
	// operation outside its legal state (single-flight discipline broken).
	ErrInvalidState = errors.New("invalid state")

	// ErrUnknownTurn is returned when a transcript operation names a turn
	// id that does not exist in the transcript.
	ErrUnknownTurn = errors.New("unknown turn")

	// ErrConfiguration indicates a missing credential or endpoint for an
	// external service. Never surfaced to HTTP callers directly; the
	// session driver converts it into a finalized apology turn.
	ErrConfiguration = errors.New("configuration error")
)

// Is implementations so typed errors match their sentinels
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
