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

// ErrRateUnavailable indicates that no configured provider could supply a required
// exchange rate. Callers use this to distinguish "no price data" from an
// accounting-API rejection.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrClearingAccountNotMapped indicates the organization has not configured an
// external clearing-account mapping for the settlement rail. A setup problem,
// surfaced to the merchant, never retried.
var ErrClearingAccountNotMapped = errors.New("clearing account not mapped for rail")

// ErrVarianceUnavailable indicates a rate variance cannot be computed because the
// creation snapshot is missing or carries a zero rate.
var ErrVarianceUnavailable = errors.New("rate variance unavailable")

// ErrUnbalancedEntries indicates a payment's ledger entries do not balance within
// tolerance. Data-integrity alert, not a normal processing failure.
var ErrUnbalancedEntries = errors.New("ledger entries do not balance")

// ErrPaymentNotConfirmed indicates a sync was requested for a payment that is not
// in a confirmed state.
var ErrPaymentNotConfirmed = errors.New("payment is not confirmed")

// AppError wraps an underlying error with a status code and a message suitable
// for logging and API responses.
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
