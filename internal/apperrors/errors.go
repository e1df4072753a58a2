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

// ErrRateNotAvailable indicates that no exchange rate could be resolved for a
// currency pair: nothing stored directly, inversely, or historically, and no
// manual override was supplied. This is the terminal resolution failure.
var ErrRateNotAvailable = errors.New("exchange rate not available")

// ErrInvalidRate indicates a non-positive exchange rate was supplied, either as
// a manual override or by a feed. Such rates are rejected before persistence.
var ErrInvalidRate = errors.New("invalid exchange rate")

// ErrReferencePriceMissing indicates a product has neither a reference price
// nor a usable legacy price. This is a data-completeness precondition failure.
var ErrReferencePriceMissing = errors.New("reference price missing")

// ErrProviderUnavailable indicates the external rate feed timed out or errored.
// Resolution swallows it into the fallback chain; it only surfaces indirectly
// when the chain ends in ErrRateNotAvailable.
var ErrProviderUnavailable = errors.New("rate provider unavailable")

// AppError carries a status code alongside a message and wrapped cause.
// Repositories use it for infrastructure failures that are not part of the
// domain error taxonomy above.
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

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError creates an error that satisfies errors.Is(err, ErrValidation).
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewNotFoundError creates an error that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}
