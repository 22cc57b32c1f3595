package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceRepository implements the user balance store credited on payout
type BalanceRepository struct {
	q Queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(q Queryable) *BalanceRepository {
	return &BalanceRepository{q: q}
}

// Credit increases a user's balance in the given currency
func (r *BalanceRepository) Credit(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit amount must not be negative, got %s", amount)
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO user_balances (user_id, currency, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET balance = user_balances.balance + EXCLUDED.balance, updated_at = NOW()
	`, userID, currency, amount)
	if err != nil {
		return fmt.Errorf("failed to credit balance for user %d: %w", userID, err)
	}

	return nil
}

// Get returns a user's balance in the given currency, zero if absent
func (r *BalanceRepository) Get(ctx context.Context, userID int64, currency string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT balance FROM user_balances WHERE user_id = $1 AND currency = $2`,
		userID, currency,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}

	return balance, nil
}
