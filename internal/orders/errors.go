package orders

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. All are recoverable; handlers map
// them to user-facing messages without treating any as fatal.
var (
	ErrNotFound             = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrPreconditionNotMet   = errors.New("precondition not met")
	ErrRoleNotPermitted     = errors.New("role not permitted for transition")
	ErrBelowMinimumOrder    = errors.New("quantity below minimum order")
	ErrAmountExceedsBalance = errors.New("amount exceeds remaining balance")
	ErrAmountNonPositive    = errors.New("amount must be positive")
	ErrMissingFiscalData    = errors.New("client fiscal profile incomplete")
	ErrOrderImmutable       = errors.New("order is in a terminal status")
	ErrEmptyLineItems       = errors.New("at least one line item is required")
)

// FieldError carries the offending field alongside the error kind so
// handlers can render a structured message. Unwrap exposes the kind
// for errors.Is checks.
type FieldError struct {
	Kind  error
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func fieldErr(kind error, field string) error {
	return &FieldError{Kind: kind, Field: field}
}
