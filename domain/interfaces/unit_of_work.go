package interfaces

import "context"

// UnitOfWork defines the interface for transactional repository operations.
// All repositories returned by one unit of work share a single database
// transaction; events published through EventBus are held until Commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	PaymentRepository() PaymentRepository
	TicketRepository() TicketRepository
	PrizePoolRepository() PrizePoolRepository
	WinnerRepository() WinnerRepository
	BalanceRepository() BalanceRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
