package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError for callers that need to decide how to
// surface it (HTTP status, retry policy, logging level).
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindInvariant  ErrorKind = "invariant"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindAtomicity  ErrorKind = "atomicity"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying infrastructure error, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) works for any NOT_FOUND error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new invariant-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindInvariant,
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed input on a specific field
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Field:   field,
	}
}

// NewValidationErrorWithCode is NewValidationError with a more specific code
func NewValidationErrorWithCode(code, field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// NewInvariantViolation reports a broken business rule
func NewInvariantViolation(code, message string) *DomainError {
	return NewDomainError(code, message)
}

// NewNotFoundError reports a missing or foreign-owned resource
func NewNotFoundError(resource string, id fmt.Stringer) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    ErrNotFound.Code,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewAtomicityFailure reports a rolled back multi-write operation
func NewAtomicityFailure(code, message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindAtomicity,
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound               = &DomainError{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Resource not found"}
	ErrConcurrencyConflict    = &DomainError{Kind: KindConflict, Code: "CONCURRENCY_CONFLICT", Message: "Resource was modified by another process"}
	ErrInvalidState           = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrIllegalTransition      = NewDomainError("ILLEGAL_TRANSITION", "Status transition is not allowed")
	ErrInvoicedJobLocked      = NewDomainError("INVOICED_JOB_LOCKED", "Invoiced jobs cannot be modified")
	ErrMixedClientSelection   = NewDomainError("MIXED_CLIENT_SELECTION", "All selected jobs must belong to the invoiced client")
	ErrMixedCurrencySelection = NewDomainError("MIXED_CURRENCY_SELECTION", "All selected jobs must share one currency")
	ErrInvalidPricingInput    = &DomainError{Kind: KindValidation, Code: "INVALID_PRICING_INPUT", Message: "Quantity and rate are required for unit pricing"}
	ErrExpenseCreationFailed  = &DomainError{Kind: KindAtomicity, Code: "EXPENSE_CREATION_FAILED", Message: "Expense could not be created; delivery was not recorded"}
)

// AsDomainError returns the first *DomainError in err's chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
