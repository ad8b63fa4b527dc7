// Package apperrors defines the closed set of errors the review service
// reports and how each maps to an HTTP status.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the category of an error
type ErrorType string

const (
	// TypeValidation indicates invalid client input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeStorage indicates a persistence failure (HTTP 500)
	TypeStorage ErrorType = "storage"
	// TypeInternal indicates any other server-side failure (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code the error is reported with.
func (e *Error) HTTPStatus() int {
	if e.Type == TypeValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ValidationError creates an error for malformed or missing request input.
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// StorageError wraps a failure of the review store.
func StorageError(message string, cause error) *Error {
	return &Error{Type: TypeStorage, Message: message, Cause: cause}
}

// InternalError wraps any other unexpected failure.
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// IsValidation reports whether err is, or wraps, a validation error.
func IsValidation(err error) bool {
	return hasType(err, TypeValidation)
}

// IsStorage reports whether err is, or wraps, a storage error.
func IsStorage(err error) bool {
	return hasType(err, TypeStorage)
}

// HTTPStatus maps any error to a status code. Untyped errors are internal.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func hasType(err error, t ErrorType) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Type == t
}
