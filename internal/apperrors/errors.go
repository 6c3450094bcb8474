// Package apperrors defines the typed error taxonomy described in
// spec §7 and the HTTP status each type maps to at the transport
// boundary. It is the only place that knows about HTTP status codes
// outside of the handler layer itself.
package apperrors

import (
	"fmt"
	"net/http"
)

// ErrorType names one bucket of the §7 taxonomy.
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "ERROR"
)

var statusByType = map[ErrorType]int{
	ErrorTypeNotFound:   http.StatusNotFound,
	ErrorTypeForbidden:  http.StatusForbidden,
	ErrorTypeValidation: http.StatusUnprocessableEntity,
	ErrorTypeConflict:   http.StatusConflict,
	ErrorTypeInternal:   http.StatusInternalServerError,
}

// AppError is the single structured error type returned by every
// component below the HTTP boundary.
type AppError struct {
	Type       ErrorType
	Message    string
	Details    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates an AppError of the given type with its default status
// code.
func New(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message, StatusCode: statusByType[t]}
}

// Newf creates a formatted AppError.
func Newf(t ErrorType, format string, args ...any) *AppError {
	return New(t, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause to a new AppError of the given type.
func Wrap(cause error, t ErrorType, message string) *AppError {
	err := New(t, message)
	err.Cause = cause
	return err
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, t ErrorType, format string, args ...any) *AppError {
	return Wrap(cause, t, fmt.Sprintf(format, args...))
}

// WithDetails sets Details in place and returns the receiver.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithDetailsf sets a formatted Details in place.
func (e *AppError) WithDetailsf(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// NewNotFoundError builds a NOT_FOUND error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return New(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewForbiddenError builds a FORBIDDEN error.
func NewForbiddenError(message string) *AppError {
	return New(ErrorTypeForbidden, message)
}

// NewValidationError builds a VALIDATION_ERROR error.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// NewConflictError builds a CONFLICT error.
func NewConflictError(message string) *AppError {
	return New(ErrorTypeConflict, message)
}

// NewInternalError wraps an unexpected error as a masked 500, per §7
// ("unexpected errors ... return 500 with a masked detail").
func NewInternalError(cause error) *AppError {
	return Wrap(cause, ErrorTypeInternal, "an internal error occurred")
}

// NewInternalErrorWithStatus builds an ErrorTypeInternal error with a
// status other than 500, for the 502/410 cases in §7 (LLM failure, BL
// invalid JSON, soft-deleted resource) that still render as the
// generic ERROR kind.
func NewInternalErrorWithStatus(message string, status int) *AppError {
	err := New(ErrorTypeInternal, message)
	err.StatusCode = status
	return err
}

// As extracts an *AppError from err, if present.
func As(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	if ok {
		return appErr, true
	}
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
		if appErr, ok := err.(*AppError); ok {
			return appErr, true
		}
	}
}
