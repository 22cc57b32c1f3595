package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a ticket payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Payment represents a ticket purchase submitted for operator verification.
// A payment is mutated exactly once, by the operator decision, and is
// immutable afterwards.
type Payment struct {
	ID             uuid.UUID       `db:"id"`
	UserID         int64           `db:"user_id"`
	Currency       string          `db:"currency"`
	Amount         decimal.Decimal `db:"amount"`
	TicketQuantity int             `db:"ticket_quantity"`
	WalletAddress  string          `db:"wallet_address"`
	TxRef          string          `db:"tx_ref"`
	Status         PaymentStatus   `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	ProcessedAt    *time.Time      `db:"processed_at"`   // NULL until decided
	ProcessedBy    *int64          `db:"processed_by"`   // operator id, NULL until decided
}

// IsPending returns true if the payment has not been decided yet
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsTerminal returns true once the payment has been approved or rejected
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusApproved || p.Status == PaymentStatusRejected
}

// UnitCost returns the per-ticket cost implied by the payment.
// Intake validation guarantees Amount = TicketQuantity x unit price, so the
// division is exact.
func (p *Payment) UnitCost() decimal.Decimal {
	return p.Amount.Div(decimal.NewFromInt(int64(p.TicketQuantity)))
}
