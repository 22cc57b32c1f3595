package repository

import (
	"context"
	"errors"
	"fmt"

	"prizepool/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements payment data access
type PaymentRepository struct {
	q Queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(q Queryable) *PaymentRepository {
	return &PaymentRepository{q: q}
}

const paymentColumns = `id, user_id, currency, amount, ticket_quantity, wallet_address, tx_ref, status, created_at, processed_at, processed_by`

// Create persists a new pending payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, currency, amount, ticket_quantity, wallet_address, tx_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Currency,
		payment.Amount,
		payment.TicketQuantity,
		payment.WalletAddress,
		payment.TxRef,
		payment.Status,
	).Scan(&payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its id
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := r.scanPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}

	return payment, nil
}

// DecideFromPending flips a pending payment to the given terminal status.
// The WHERE clause on status is the compare-and-swap that makes a second
// decision a no-op: zero rows updated means the payment was already decided
// (or never existed).
func (r *PaymentRepository) DecideFromPending(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, operatorID int64) (*entities.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, processed_at = NOW(), processed_by = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + paymentColumns

	payment, err := r.scanPayment(r.q.QueryRow(ctx, query, id, status, operatorID))
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to decide payment %s: %w", id, err)
	}

	// Distinguish an already-decided payment from an unknown id
	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.IsTerminal() {
		return nil, entities.ErrAlreadyProcessed
	}
	return nil, fmt.Errorf("failed to decide payment %s: unexpected status %s", id, existing.Status)
}

// List returns payments newest first, optionally filtered by status
func (r *PaymentRepository) List(ctx context.Context, status *entities.PaymentStatus, limit int) ([]*entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entities.Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func (r *PaymentRepository) scanPayment(row pgx.Row) (*entities.Payment, error) {
	var payment entities.Payment
	err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.Currency,
		&payment.Amount,
		&payment.TicketQuantity,
		&payment.WalletAddress,
		&payment.TxRef,
		&payment.Status,
		&payment.CreatedAt,
		&payment.ProcessedAt,
		&payment.ProcessedBy,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
