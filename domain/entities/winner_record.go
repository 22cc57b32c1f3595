package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// WinnerRecord is the immutable audit trail of a winning draw. It captures
// the ticket counts as they were at draw time, the rolled fraction and the
// pool revision acted on, so any past draw can be re-checked.
type WinnerRecord struct {
	ID           int64                      `db:"id"`
	UserID       int64                      `db:"user_id"`
	DrawDate     time.Time                  `db:"draw_date"`
	Winnings     map[string]decimal.Decimal `db:"winnings"`
	TicketsUsed  int64                      `db:"tickets_used"`
	TotalTickets int64                      `db:"total_tickets"`
	Roll         decimal.Decimal            `db:"roll"`
	PoolRevision int64                      `db:"pool_revision"`
	CreatedAt    time.Time                  `db:"created_at"`
}

// DrawResult is the outcome of one draw participation
type DrawResult struct {
	Won            bool
	Winnings       map[string]decimal.Decimal // nil on loss
	TicketsUsed    int64
	TotalTickets   int64
	WinProbability decimal.Decimal
}
