package interfaces

import (
	"context"

	"prizepool/domain/entities"
	"prizepool/domain/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create persists a new pending payment
	Create(ctx context.Context, payment *entities.Payment) error

	// GetByID retrieves a payment by its id
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)

	// DecideFromPending atomically flips a pending payment to the given
	// terminal status (compare-and-swap on status). Returns
	// entities.ErrAlreadyProcessed if the payment is no longer pending and
	// entities.ErrPaymentNotFound if it does not exist.
	DecideFromPending(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, operatorID int64) (*entities.Payment, error)

	// List returns payments newest first, optionally filtered by status
	List(ctx context.Context, status *entities.PaymentStatus, limit int) ([]*entities.Payment, error)
}

// TicketRepository defines the interface for the ticket ledger
type TicketRepository interface {
	// IssueBatch bulk-inserts qty tickets for the payment, each with a
	// globally unique sequence-derived ticket number
	IssueBatch(ctx context.Context, paymentID uuid.UUID, ownerID int64, qty int, unitCost decimal.Decimal) ([]*entities.Ticket, error)

	// ActiveCountByUser returns the count of unused tickets owned by a user
	ActiveCountByUser(ctx context.Context, userID int64) (int64, error)

	// TotalActiveCount returns the count of unused tickets across all users
	TotalActiveCount(ctx context.Context) (int64, error)

	// ConsumeAllForUser flips every unused ticket of the user to used and
	// returns how many were flipped. A second call in the same draw returns 0.
	ConsumeAllForUser(ctx context.Context, userID int64) (int64, error)

	// GetByPayment returns the tickets minted for a payment
	GetByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Ticket, error)

	// GetParticipantSummary returns active ticket counts per user, largest first
	GetParticipantSummary(ctx context.Context) ([]*entities.ParticipantInfo, error)
}

// PrizePoolRepository defines the interface for the singleton prize pool
type PrizePoolRepository interface {
	// Lock acquires exclusive access to the pool (row lock on the singleton)
	// and returns a consistent snapshot. All pool-mutating operations go
	// through this lock, which is the subsystem's single serialization point.
	Lock(ctx context.Context) (*entities.PoolSnapshot, error)

	// Snapshot returns a read-consistent view without locking
	Snapshot(ctx context.Context) (*entities.PoolSnapshot, error)

	// Credit increases a balance and bumps the revision. The idempotency key
	// (the originating payment id) makes a retried credit a silent no-op;
	// the bool reports whether the balance actually moved.
	Credit(ctx context.Context, currency string, amount decimal.Decimal, idempotencyKey uuid.UUID) (bool, error)

	// Debit decreases a balance and bumps the revision. Returns
	// entities.ErrInsufficientPool if amount exceeds the current balance.
	Debit(ctx context.Context, currency string, amount decimal.Decimal) error
}

// WinnerRepository defines the interface for the append-only winner registry
type WinnerRepository interface {
	// Create appends a winner record
	Create(ctx context.Context, record *entities.WinnerRecord) error

	// Recent returns the latest n winner records, newest first
	Recent(ctx context.Context, n int) ([]*entities.WinnerRecord, error)
}

// BalanceRepository defines the interface for the external user balance
// store credited on payout
type BalanceRepository interface {
	// Credit increases a user's balance in the given currency
	Credit(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error

	// Get returns a user's balance in the given currency, zero if absent
	Get(ctx context.Context, userID int64, currency string) (decimal.Decimal, error)
}

// EventPublisher defines the interface for the fire-and-forget
// notification/activity sink
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher queues events during a transaction and only
// delivers them after commit
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush delivers all pending events; called after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all pending events; called on rollback
	Discard()
}
