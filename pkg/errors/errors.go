package errors

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	ErrValidation          = errors.New("invalid input")
	ErrForbidden           = errors.New("operation not permitted")
	ErrInvalidState        = errors.New("application state does not permit this transition")
	ErrSuspended           = errors.New("account is suspended")
	ErrGateway             = errors.New("payment gateway unavailable")
	ErrAmountMismatch      = errors.New("payment amount does not match the expected fee")
	ErrNotFound            = errors.New("record not found")
	ErrUnknownSession      = errors.New("session unknown to gateway")
	ErrReconcileInProgress = errors.New("reconciliation already in progress for this session")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeSuspended      = "ACCOUNT_SUSPENDED"
	ErrCodeGateway        = "GATEWAY_ERROR"
	ErrCodeAmountMismatch = "AMOUNT_MISMATCH"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeDatabaseError  = "DATABASE_ERROR"
	ErrCodeCacheError     = "CACHE_ERROR"
)

// SuspensionError carries the suspension context back to the caller so the
// remaining time can be reported. Until is nil for permanent suspensions.
type SuspensionError struct {
	Reason string
	Until  *time.Time
}

func (e *SuspensionError) Error() string {
	if e.Until == nil {
		return fmt.Sprintf("account suspended permanently: %s", e.Reason)
	}
	return fmt.Sprintf("account suspended until %s: %s", e.Until.Format(time.RFC3339), e.Reason)
}

func (e *SuspensionError) Unwrap() error {
	return ErrSuspended
}

// Wrap common errors with business context
func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(ErrCodeForbidden, message, ErrForbidden)
}

func WrapInvalidState(applicationID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidState,
		fmt.Sprintf("Application %s is %s and cannot be transitioned", applicationID, status),
		ErrInvalidState,
	)
}

func WrapGatewayError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeGateway,
		"payment gateway request failed",
		errors.Join(ErrGateway, err),
	)
}

func WrapAmountMismatch(expected, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodeAmountMismatch,
		fmt.Sprintf("Reported amount %s does not match expected fee %s", actual, expected),
		ErrAmountMismatch,
	)
}

func WrapNotFound(what, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s %s not found", what, id),
		ErrNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
