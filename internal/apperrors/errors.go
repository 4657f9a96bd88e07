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

// ErrConflict indicates a concurrent modification of the same resource.
var ErrConflict = errors.New("resource was modified concurrently")

// ErrImbalance indicates a ledger-law violation: debits and credits of a
// currency bucket do not net to zero. It is a rejected submission, but it
// always points at a bug in the caller that built the entry.
var ErrImbalance = errors.New("journal entry does not balance")

// ErrCalculation indicates that committed data failed to reconcile.
// Callers must stop any computation that depends on the failed result.
var ErrCalculation = errors.New("ledger calculation failed to reconcile")

// ErrAlreadyReversed is returned when a journal entry already has a reversal.
// It matches ErrNotFound as well, since there is no reversible entry left.
var ErrAlreadyReversed = fmt.Errorf("%w: entry already reversed", ErrNotFound)

// ErrInternal is a generic infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure error with a status-like code and a message
// safe to surface to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
