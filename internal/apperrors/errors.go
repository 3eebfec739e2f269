package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found, or is not owned by the caller.
var ErrNotFound = errors.New("resource not found")

// ErrForbidden indicates that the resource exists but belongs to someone else.
var ErrForbidden = errors.New("forbidden")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateUnavailable indicates that a conversion was requested for a currency with no known rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrConflict indicates that an atomic storage unit failed as a whole (serialization failure,
// deadlock, or a lost compare-and-swap). Nothing was written; the caller may retry.
var ErrConflict = errors.New("storage conflict")

// AppError carries an HTTP-ish code and a message on top of an underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(400, message, ErrValidation)
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(404, message, ErrNotFound)
}

// NewForbiddenError returns an AppError that matches ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return NewAppError(403, message, ErrForbidden)
}

// NewConflictError returns an AppError that matches ErrConflict.
func NewConflictError(message string, cause error) *AppError {
	if cause == nil {
		return NewAppError(409, message, ErrConflict)
	}
	return NewAppError(409, message, fmt.Errorf("%w: %w", ErrConflict, cause))
}

// NewRateUnavailableError returns an AppError that matches ErrRateUnavailable.
func NewRateUnavailableError(currencyCode string) *AppError {
	return NewAppError(503, "no exchange rate for currency "+currencyCode, ErrRateUnavailable)
}
