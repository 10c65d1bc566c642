package errors

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrAlreadyExists is the generic duplicate-user error.
var ErrAlreadyExists = NewAlreadyExistsError("user", "")

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusConflict
}

// InternalError represents an unexpected failure. ErrorID is the only detail
// that may be shown to a caller.
type InternalError struct {
	ErrorID string
	Message string
	Err     error
}

// NewCorrelatedError wraps err in an InternalError carrying a fresh correlation id.
func NewCorrelatedError(err error) *InternalError {
	return &InternalError{
		ErrorID: uuid.NewString(),
		Message: "An internal error has occurred",
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// PublicMessage returns the caller-facing text, which never includes the wrapped error.
func (e *InternalError) PublicMessage() string {
	if e.ErrorID == "" {
		return e.Message
	}
	return fmt.Sprintf("%s. ErrorId: %s", e.Message, e.ErrorID)
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that can provide an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}
