package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"prizepool/domain/entities"

	"github.com/shopspring/decimal"
)

// WinnerRepository implements the append-only winner registry
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(q Queryable) *WinnerRepository {
	return &WinnerRepository{q: q}
}

// Create appends a winner record
func (r *WinnerRepository) Create(ctx context.Context, record *entities.WinnerRecord) error {
	winnings, err := json.Marshal(record.Winnings)
	if err != nil {
		return fmt.Errorf("failed to marshal winnings: %w", err)
	}

	query := `
		INSERT INTO winner_records (user_id, winnings, tickets_used, total_tickets, roll, pool_revision)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, draw_date, created_at
	`

	err = r.q.QueryRow(ctx, query,
		record.UserID,
		winnings,
		record.TicketsUsed,
		record.TotalTickets,
		record.Roll,
		record.PoolRevision,
	).Scan(&record.ID, &record.DrawDate, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create winner record: %w", err)
	}

	return nil
}

// Recent returns the latest n winner records, newest first
func (r *WinnerRepository) Recent(ctx context.Context, n int) ([]*entities.WinnerRecord, error) {
	query := `
		SELECT id, user_id, draw_date, winnings, tickets_used, total_tickets, roll, pool_revision, created_at
		FROM winner_records
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent winners: %w", err)
	}
	defer rows.Close()

	var records []*entities.WinnerRecord
	for rows.Next() {
		var record entities.WinnerRecord
		var winnings []byte
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.DrawDate,
			&winnings,
			&record.TicketsUsed,
			&record.TotalTickets,
			&record.Roll,
			&record.PoolRevision,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner record: %w", err)
		}
		record.Winnings = make(map[string]decimal.Decimal)
		if err := json.Unmarshal(winnings, &record.Winnings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winnings: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winner records: %w", err)
	}

	return records, nil
}
