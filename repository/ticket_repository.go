package repository

import (
	"context"
	"fmt"

	"prizepool/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketRepository implements the ticket ledger
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(q Queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

// IssueBatch bulk-inserts qty tickets for a payment. Ticket numbers come
// from the global ticket_numbers sequence, so they are unique across every
// batch ever issued, including retried or rejected attempts.
func (r *TicketRepository) IssueBatch(ctx context.Context, paymentID uuid.UUID, ownerID int64, qty int, unitCost decimal.Decimal) ([]*entities.Ticket, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("ticket quantity must be positive, got %d", qty)
	}

	query := `
		INSERT INTO tickets (owner_id, cost, payment_id)
		SELECT $1, $2, $3 FROM generate_series(1, $4)
		RETURNING id, ticket_number, issued_at
	`

	rows, err := r.q.Query(ctx, query, ownerID, unitCost, paymentID, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to batch issue tickets for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	tickets := make([]*entities.Ticket, 0, qty)
	for rows.Next() {
		ticket := &entities.Ticket{
			OwnerID:   ownerID,
			Cost:      unitCost,
			PaymentID: paymentID,
		}
		if err := rows.Scan(&ticket.ID, &ticket.TicketNumber, &ticket.IssuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issued ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issued tickets: %w", err)
	}
	if len(tickets) != qty {
		return nil, fmt.Errorf("expected %d issued tickets, got %d", qty, len(tickets))
	}

	return tickets, nil
}

// ActiveCountByUser returns the count of unused tickets owned by a user
func (r *TicketRepository) ActiveCountByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE owner_id = $1 AND NOT is_used`

	var count int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active tickets for user %d: %w", userID, err)
	}

	return count, nil
}

// TotalActiveCount returns the count of unused tickets across all users
func (r *TicketRepository) TotalActiveCount(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE NOT is_used`

	var count int64
	if err := r.q.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active tickets: %w", err)
	}

	return count, nil
}

// ConsumeAllForUser flips every unused ticket of the user to used. The
// is_used guard in the WHERE clause makes the flip one-way: a repeated call
// matches no rows and returns 0.
func (r *TicketRepository) ConsumeAllForUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE tickets
		SET is_used = TRUE, used_at = NOW()
		WHERE owner_id = $1 AND NOT is_used
	`

	tag, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to consume tickets for user %d: %w", userID, err)
	}

	return tag.RowsAffected(), nil
}

// GetByPayment returns the tickets minted for a payment
func (r *TicketRepository) GetByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Ticket, error) {
	query := `
		SELECT id, owner_id, ticket_number, cost, is_used, payment_id, issued_at, used_at
		FROM tickets
		WHERE payment_id = $1
		ORDER BY ticket_number ASC
	`

	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for payment %s: %w", paymentID, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		var ticket entities.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.TicketNumber,
			&ticket.Cost,
			&ticket.IsUsed,
			&ticket.PaymentID,
			&ticket.IssuedAt,
			&ticket.UsedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// GetParticipantSummary returns active ticket counts per user, largest first
func (r *TicketRepository) GetParticipantSummary(ctx context.Context) ([]*entities.ParticipantInfo, error) {
	query := `
		SELECT owner_id, COUNT(*) AS ticket_count
		FROM tickets
		WHERE NOT is_used
		GROUP BY owner_id
		ORDER BY ticket_count DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant summary: %w", err)
	}
	defer rows.Close()

	var participants []*entities.ParticipantInfo
	for rows.Next() {
		var p entities.ParticipantInfo
		if err := rows.Scan(&p.UserID, &p.TicketCount); err != nil {
			return nil, fmt.Errorf("failed to scan participant info: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participant summary: %w", err)
	}

	return participants, nil
}
