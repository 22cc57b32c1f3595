package interfaces

import (
	"context"

	"prizepool/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentOutcome is an operator decision on a pending payment
type PaymentOutcome string

const (
	PaymentOutcomeApprove PaymentOutcome = "approve"
	PaymentOutcomeReject  PaymentOutcome = "reject"
)

// SubmitPaymentInput carries a ticket-purchase submission
type SubmitPaymentInput struct {
	UserID         int64
	Currency       string
	Amount         decimal.Decimal
	TicketQuantity int
	WalletAddress  string
	TxRef          string
}

// PaymentService defines the interface for payment intake and the operator
// approval workflow
type PaymentService interface {
	// SubmitPayment validates a submission and creates a pending payment.
	// It does not touch the pool or the ticket ledger.
	SubmitPayment(ctx context.Context, input SubmitPaymentInput) (*entities.Payment, error)

	// Decide applies an operator decision. The approve path credits the pool
	// and mints tickets; it must run inside one unit of work so the three
	// sub-steps commit together. A second decision returns
	// entities.ErrAlreadyProcessed and changes nothing.
	Decide(ctx context.Context, paymentID uuid.UUID, outcome PaymentOutcome, operatorID int64) (*entities.Payment, error)

	// ListPayments returns payments newest first, optionally filtered by status
	ListPayments(ctx context.Context, status *entities.PaymentStatus, limit int) ([]*entities.Payment, error)
}

// DrawService defines the interface for the weighted random draw and its
// read models
type DrawService interface {
	// Participate runs one draw for the user: computes their ticket share,
	// rolls, pays out a capped fraction of the pool on a win, and retires
	// the user's entire ticket holding win or lose.
	Participate(ctx context.Context, userID int64) (*entities.DrawResult, error)

	// RecentWinners returns the latest n winner records, newest first
	RecentWinners(ctx context.Context, n int) ([]*entities.WinnerRecord, error)

	// PoolSnapshot returns the current pool balances and revision
	PoolSnapshot(ctx context.Context) (*entities.PoolSnapshot, error)
}
