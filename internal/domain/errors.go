package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrNoChanges is reported when an edit submission produces an empty
	// change-set; the update call must not be issued in that case.
	ErrNoChanges = errors.New("no changes to save")

	// Camera errors surfaced by the scanner adapter.
	ErrNoCamera         = errors.New("no camera device available")
	ErrCameraPermission = errors.New("camera permission denied")
	ErrCameraInUse      = errors.New("camera is already in use")
	ErrCameraConstraint = errors.New("camera does not support the requested mode")
)

// RequestErrorKind classifies how a backend request ultimately failed.
type RequestErrorKind uint8

const (
	// RequestTimeout means the attempts ran out of time.
	RequestTimeout RequestErrorKind = iota
	// RequestUnreachable means the backend could not be contacted at all.
	RequestUnreachable
	// RequestStatus means the backend answered with a non-success status.
	RequestStatus
)

// RequestError is the single error surfaced by the HTTP access layer after
// its retry budget is exhausted. Timeouts and connectivity failures carry a
// normalized message; status failures pass the server's text through.
type RequestError struct {
	Kind     RequestErrorKind
	Op       string // logical operation, e.g. "list items"
	Status   int    // HTTP status for RequestStatus, 0 otherwise
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case RequestTimeout:
		return fmt.Sprintf("%s: request timed out after %d attempts", e.Op, e.Attempts)
	case RequestUnreachable:
		return fmt.Sprintf("%s: could not reach the inventory service after %d attempts", e.Op, e.Attempts)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a RequestError caused by a timeout.
func IsTimeout(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == RequestTimeout
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
