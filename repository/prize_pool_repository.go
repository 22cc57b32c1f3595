package repository

import (
	"context"
	"fmt"

	"prizepool/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrizePoolRepository implements access to the singleton prize pool.
// The pool row (id = 1) is created by migration, never by the application.
type PrizePoolRepository struct {
	q Queryable
}

// NewPrizePoolRepository creates a new prize pool repository
func NewPrizePoolRepository(q Queryable) *PrizePoolRepository {
	return &PrizePoolRepository{q: q}
}

// Lock takes the row lock on the pool singleton and returns a snapshot.
// Every pool-mutating operation (approval credit, draw debit) locks this row
// first, which serializes them against each other; counts and balances read
// after the lock cannot be stale.
func (r *PrizePoolRepository) Lock(ctx context.Context) (*entities.PoolSnapshot, error) {
	var revision int64
	err := r.q.QueryRow(ctx, `SELECT revision FROM prize_pool WHERE id = 1 FOR UPDATE`).Scan(&revision)
	if err != nil {
		return nil, fmt.Errorf("failed to lock prize pool: %w", err)
	}

	balances, err := r.readBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.PoolSnapshot{Revision: revision, Balances: balances}, nil
}

// Snapshot returns a read-consistent view without locking
func (r *PrizePoolRepository) Snapshot(ctx context.Context) (*entities.PoolSnapshot, error) {
	var revision int64
	err := r.q.QueryRow(ctx, `SELECT revision FROM prize_pool WHERE id = 1`).Scan(&revision)
	if err != nil {
		return nil, fmt.Errorf("failed to read prize pool revision: %w", err)
	}

	balances, err := r.readBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.PoolSnapshot{Revision: revision, Balances: balances}, nil
}

// Credit increases a balance. The insert into pool_credits is the
// idempotency barrier: a payment id that already credited the pool conflicts
// and the whole call becomes a silent no-op.
func (r *PrizePoolRepository) Credit(ctx context.Context, currency string, amount decimal.Decimal, idempotencyKey uuid.UUID) (bool, error) {
	if amount.IsNegative() {
		return false, fmt.Errorf("credit amount must not be negative, got %s", amount)
	}

	tag, err := r.q.Exec(ctx, `
		INSERT INTO pool_credits (payment_id, currency, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (payment_id) DO NOTHING
	`, idempotencyKey, currency, amount)
	if err != nil {
		return false, fmt.Errorf("failed to record pool credit for payment %s: %w", idempotencyKey, err)
	}
	if tag.RowsAffected() == 0 {
		// Known idempotency key: already credited
		return false, nil
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO pool_balances (currency, balance)
		VALUES ($1, $2)
		ON CONFLICT (currency) DO UPDATE SET balance = pool_balances.balance + EXCLUDED.balance
	`, currency, amount)
	if err != nil {
		return false, fmt.Errorf("failed to credit pool balance: %w", err)
	}

	if err := r.bumpRevision(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// Debit decreases a balance. The balance >= amount guard in the WHERE clause
// enforces the non-negative invariant at the storage layer; the capped payout
// formula should never trip it.
func (r *PrizePoolRepository) Debit(ctx context.Context, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("debit amount must not be negative, got %s", amount)
	}

	tag, err := r.q.Exec(ctx, `
		UPDATE pool_balances
		SET balance = balance - $2
		WHERE currency = $1 AND balance >= $2
	`, currency, amount)
	if err != nil {
		return fmt.Errorf("failed to debit pool balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrInsufficientPool
	}

	return r.bumpRevision(ctx)
}

func (r *PrizePoolRepository) bumpRevision(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `UPDATE prize_pool SET revision = revision + 1, updated_at = NOW() WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to bump pool revision: %w", err)
	}
	return nil
}

func (r *PrizePoolRepository) readBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT currency, balance FROM pool_balances`)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var currency string
		var balance decimal.Decimal
		if err := rows.Scan(&currency, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan pool balance: %w", err)
		}
		balances[currency] = balance
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool balances: %w", err)
	}

	return balances, nil
}
