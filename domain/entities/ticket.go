package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket represents a single draw entry. Tickets are minted in one batch per
// approved payment and consumed at most once; IsUsed is a one-way latch.
type Ticket struct {
	ID           int64           `db:"id"`
	OwnerID      int64           `db:"owner_id"`
	TicketNumber int64           `db:"ticket_number"` // globally unique, sequence-derived
	Cost         decimal.Decimal `db:"cost"`
	IsUsed       bool            `db:"is_used"`
	PaymentID    uuid.UUID       `db:"payment_id"`
	IssuedAt     time.Time       `db:"issued_at"`
	UsedAt       *time.Time      `db:"used_at"` // NULL until consumed by a draw
}

// ParticipantInfo summarises a user's active ticket holding
type ParticipantInfo struct {
	UserID      int64 `db:"user_id"`
	TicketCount int64 `db:"ticket_count"`
}
