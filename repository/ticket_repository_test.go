package repository

import (
	"context"
	"testing"

	"prizepool/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_IssueBatch(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	paymentRepo := NewPaymentRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	payment := testutil.CreateTestPayment(100, 5)
	require.NoError(t, paymentRepo.Create(ctx, payment))

	tickets, err := repo.IssueBatch(ctx, payment.ID, payment.UserID, 5, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.Len(t, tickets, 5)

	// Ticket numbers are unique across the batch
	seen := make(map[int64]bool)
	for _, ticket := range tickets {
		assert.False(t, seen[ticket.TicketNumber], "duplicate ticket number %d", ticket.TicketNumber)
		seen[ticket.TicketNumber] = true
		assert.Equal(t, int64(100), ticket.OwnerID)
		assert.False(t, ticket.IssuedAt.IsZero())
	}

	t.Run("numbers stay unique across batches", func(t *testing.T) {
		other := testutil.CreateTestPayment(101, 3)
		require.NoError(t, paymentRepo.Create(ctx, other))

		more, err := repo.IssueBatch(ctx, other.ID, other.UserID, 3, decimal.NewFromInt(2))
		require.NoError(t, err)
		for _, ticket := range more {
			assert.False(t, seen[ticket.TicketNumber], "ticket number %d reused", ticket.TicketNumber)
		}
	})

	t.Run("get by payment", func(t *testing.T) {
		got, err := repo.GetByPayment(ctx, payment.ID)
		require.NoError(t, err)
		assert.Len(t, got, 5)
		for _, ticket := range got {
			assert.Equal(t, payment.ID, ticket.PaymentID)
			assert.True(t, ticket.Cost.Equal(decimal.NewFromInt(2)))
			assert.False(t, ticket.IsUsed)
		}
	})
}

func TestTicketRepository_Counts(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	paymentRepo := NewPaymentRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	issueFor := func(userID int64, qty int) {
		payment := testutil.CreateTestPayment(userID, qty)
		require.NoError(t, paymentRepo.Create(ctx, payment))
		_, err := repo.IssueBatch(ctx, payment.ID, userID, qty, decimal.NewFromInt(2))
		require.NoError(t, err)
	}

	issueFor(1, 4)
	issueFor(2, 6)

	count, err := repo.ActiveCountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	total, err := repo.TotalActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	none, err := repo.ActiveCountByUser(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), none)
}

func TestTicketRepository_ConsumeAllForUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	paymentRepo := NewPaymentRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	payment := testutil.CreateTestPayment(50, 4)
	require.NoError(t, paymentRepo.Create(ctx, payment))
	_, err := repo.IssueBatch(ctx, payment.ID, 50, 4, decimal.NewFromInt(2))
	require.NoError(t, err)

	consumed, err := repo.ConsumeAllForUser(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(4), consumed)

	// Counts drop to zero and the used flag sticks
	count, err := repo.ActiveCountByUser(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	tickets, err := repo.GetByPayment(ctx, payment.ID)
	require.NoError(t, err)
	for _, ticket := range tickets {
		assert.True(t, ticket.IsUsed)
		assert.NotNil(t, ticket.UsedAt)
	}

	// A second consume finds nothing to flip
	consumed, err = repo.ConsumeAllForUser(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), consumed)
}

func TestTicketRepository_GetParticipantSummary(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	paymentRepo := NewPaymentRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	issueFor := func(userID int64, qty int) {
		payment := testutil.CreateTestPayment(userID, qty)
		require.NoError(t, paymentRepo.Create(ctx, payment))
		_, err := repo.IssueBatch(ctx, payment.ID, userID, qty, decimal.NewFromInt(2))
		require.NoError(t, err)
	}

	issueFor(1, 7)
	issueFor(2, 3)

	summary, err := repo.GetParticipantSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Ordered by ticket count descending
	assert.Equal(t, int64(1), summary[0].UserID)
	assert.Equal(t, int64(7), summary[0].TicketCount)
	assert.Equal(t, int64(2), summary[1].UserID)
	assert.Equal(t, int64(3), summary[1].TicketCount)
}
