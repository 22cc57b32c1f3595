package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for the payment and draw workflows. Callers match them
// with errors.Is so the HTTP layer can map each to a distinct response.
var (
	// ErrAlreadyProcessed signals a second decision on a non-pending payment.
	// It is a benign idempotency signal: the retried call changed nothing.
	ErrAlreadyProcessed = errors.New("payment already processed")

	// ErrPaymentNotFound signals a decision against an unknown payment id
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrNoTickets signals a draw attempt by a user with no active tickets
	ErrNoTickets = errors.New("user has no active tickets")

	// ErrNoActiveTickets signals a draw against an empty global ledger
	ErrNoActiveTickets = errors.New("no active tickets in the ledger")

	// ErrInsufficientPool signals a debit exceeding the pool balance. The
	// capped payout formula should make this unreachable; the guard exists
	// regardless.
	ErrInsufficientPool = errors.New("insufficient prize pool balance")
)

// ValidationError reports a malformed payment submission
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
