package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an operation was attempted against a resource in the
// wrong lifecycle state (e.g. posting to a closed cash box).
var ErrInvalidState = errors.New("invalid state")

// ErrInsufficientBalance indicates an operation would drive an account balance
// below zero while the account's policy forbids negative balances.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrConflictRetryable indicates a concurrent-mutation conflict reported by the
// backing store. The operation left no partial state and is safe to retry.
var ErrConflictRetryable = errors.New("concurrent modification conflict")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected persistence or infrastructure failure.
var ErrInternal = errors.New("internal error")

// Kind returns the stable, machine-checkable error kind for err, suitable for
// the API error envelope.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "DUPLICATE"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrConflictRetryable):
		return "CONFLICT_RETRYABLE"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// IsRetryable reports whether err is safe to retry automatically.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflictRetryable)
}

// AppError wraps a lower-level error with a status code and message.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
