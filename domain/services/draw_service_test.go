package services

import (
	"context"
	"testing"

	"prizepool/config"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixedRoll returns a RollFunc that always yields the given fraction
func fixedRoll(s string) RollFunc {
	r := decimal.RequireFromString(s)
	return func() (decimal.Decimal, error) {
		return r, nil
	}
}

type drawFixture struct {
	ticketRepo    *testhelpers.MockTicketRepository
	prizePoolRepo *testhelpers.MockPrizePoolRepository
	winnerRepo    *testhelpers.MockWinnerRepository
	balanceRepo   *testhelpers.MockBalanceRepository
	publisher     *testhelpers.MockEventPublisher
}

func newDrawFixture(roll RollFunc) (*drawFixture, interfaces.DrawService) {
	f := &drawFixture{
		ticketRepo:    new(testhelpers.MockTicketRepository),
		prizePoolRepo: new(testhelpers.MockPrizePoolRepository),
		winnerRepo:    new(testhelpers.MockWinnerRepository),
		balanceRepo:   new(testhelpers.MockBalanceRepository),
		publisher:     new(testhelpers.MockEventPublisher),
	}
	service := NewDrawService(f.ticketRepo, f.prizePoolRepo, f.winnerRepo, f.balanceRepo, f.publisher, roll)
	return f, service
}

func TestDrawService_Participate_NoTickets(t *testing.T) {
	config.Set(config.NewTestConfig())
	f, service := newDrawFixture(fixedRoll("0.5"))

	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(0), nil)

	result, err := service.Participate(context.Background(), 42)
	require.ErrorIs(t, err, entities.ErrNoTickets)
	assert.Nil(t, result)

	// Nothing moves when the user holds no tickets
	f.prizePoolRepo.AssertNotCalled(t, "Lock")
	f.ticketRepo.AssertNotCalled(t, "ConsumeAllForUser")
	f.publisher.AssertNotCalled(t, "Publish")
}

func TestDrawService_Participate_WinPaysCappedFractionAndConsumesTickets(t *testing.T) {
	config.Set(config.NewTestConfig())
	// 10 of 100 tickets, probability 0.1; roll 0.05 wins
	f, service := newDrawFixture(fixedRoll("0.05"))

	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(10), nil)
	f.ticketRepo.On("TotalActiveCount", mock.Anything).Return(int64(100), nil)

	snapshot := &entities.PoolSnapshot{
		Revision: 17,
		Balances: map[string]decimal.Decimal{
			"USDT":   decimal.RequireFromString("1000.00"),
			"POINTS": decimal.NewFromInt(333),
		},
	}
	f.prizePoolRepo.On("Lock", mock.Anything).Return(snapshot, nil)

	// payoutFraction = min(0.1 * 2, 0.5) = 0.2
	f.prizePoolRepo.On("Debit", mock.Anything, "USDT",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("200")) })).
		Return(nil)
	f.balanceRepo.On("Credit", mock.Anything, int64(42), "USDT",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("200")) })).
		Return(nil)

	// 333 * 0.2 = 66.6, floored to whole POINTS
	f.prizePoolRepo.On("Debit", mock.Anything, "POINTS",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(66)) })).
		Return(nil)
	f.balanceRepo.On("Credit", mock.Anything, int64(42), "POINTS",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(66)) })).
		Return(nil)

	f.winnerRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec *entities.WinnerRecord) bool {
		return rec.UserID == 42 &&
			rec.TicketsUsed == 10 &&
			rec.TotalTickets == 100 &&
			rec.PoolRevision == 17 &&
			rec.Roll.Equal(decimal.RequireFromString("0.05"))
	})).Return(nil)

	f.ticketRepo.On("ConsumeAllForUser", mock.Anything, int64(42)).Return(int64(10), nil)
	f.publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Participate(context.Background(), 42)
	require.NoError(t, err)

	assert.True(t, result.Won)
	assert.Equal(t, int64(10), result.TicketsUsed)
	assert.Equal(t, int64(100), result.TotalTickets)
	assert.True(t, result.WinProbability.Equal(decimal.RequireFromString("0.1")))
	assert.True(t, result.Winnings["USDT"].Equal(decimal.RequireFromString("200")))
	assert.True(t, result.Winnings["POINTS"].Equal(decimal.NewFromInt(66)))

	f.prizePoolRepo.AssertExpectations(t)
	f.balanceRepo.AssertExpectations(t)
	f.winnerRepo.AssertExpectations(t)
	f.ticketRepo.AssertExpectations(t)
}

func TestDrawService_Participate_LossStillConsumesTickets(t *testing.T) {
	config.Set(config.NewTestConfig())
	// probability 0.1; roll 0.5 loses
	f, service := newDrawFixture(fixedRoll("0.5"))

	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(10), nil)
	f.ticketRepo.On("TotalActiveCount", mock.Anything).Return(int64(100), nil)
	f.prizePoolRepo.On("Lock", mock.Anything).Return(&entities.PoolSnapshot{
		Revision: 4,
		Balances: map[string]decimal.Decimal{"USDT": decimal.NewFromInt(500)},
	}, nil)
	f.ticketRepo.On("ConsumeAllForUser", mock.Anything, int64(42)).Return(int64(10), nil)
	f.publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Participate(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, result.Won)
	assert.Empty(t, result.Winnings)
	assert.Equal(t, int64(10), result.TicketsUsed)

	f.prizePoolRepo.AssertNotCalled(t, "Debit")
	f.balanceRepo.AssertNotCalled(t, "Credit")
	f.winnerRepo.AssertNotCalled(t, "Create")
	f.ticketRepo.AssertExpectations(t)
}

func TestDrawService_Participate_SoleHolderCappedAtMaxFraction(t *testing.T) {
	config.Set(config.NewTestConfig())
	// Sole ticket holder: probability 1, always wins, payout capped at 0.5
	f, service := newDrawFixture(fixedRoll("0.999999"))

	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(7)).Return(int64(20), nil)
	f.ticketRepo.On("TotalActiveCount", mock.Anything).Return(int64(20), nil)
	f.prizePoolRepo.On("Lock", mock.Anything).Return(&entities.PoolSnapshot{
		Revision: 9,
		Balances: map[string]decimal.Decimal{"USDT": decimal.NewFromInt(100)},
	}, nil)

	f.prizePoolRepo.On("Debit", mock.Anything, "USDT",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(50)) })).
		Return(nil)
	f.balanceRepo.On("Credit", mock.Anything, int64(7), "USDT",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(50)) })).
		Return(nil)
	f.winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.ticketRepo.On("ConsumeAllForUser", mock.Anything, int64(7)).Return(int64(20), nil)
	f.publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Participate(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.True(t, result.Winnings["USDT"].Equal(decimal.NewFromInt(50)))

	f.prizePoolRepo.AssertExpectations(t)
}

func TestDrawService_Participate_EmptyLedgerAfterLock(t *testing.T) {
	config.Set(config.NewTestConfig())
	f, service := newDrawFixture(fixedRoll("0.5"))

	// Tickets visible before the lock, gone after it
	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(3), nil).Once()
	f.prizePoolRepo.On("Lock", mock.Anything).Return(&entities.PoolSnapshot{
		Revision: 2,
		Balances: map[string]decimal.Decimal{},
	}, nil)
	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(0), nil).Once()

	result, err := service.Participate(context.Background(), 42)
	require.ErrorIs(t, err, entities.ErrNoTickets)
	assert.Nil(t, result)
	f.ticketRepo.AssertNotCalled(t, "ConsumeAllForUser")
}

func TestDrawService_Participate_SkipsDustPayouts(t *testing.T) {
	config.Set(config.NewTestConfig())
	f, service := newDrawFixture(fixedRoll("0.0"))

	f.ticketRepo.On("ActiveCountByUser", mock.Anything, int64(42)).Return(int64(1), nil)
	f.ticketRepo.On("TotalActiveCount", mock.Anything).Return(int64(1000), nil)

	// probability 0.001, fraction 0.002; 2 POINTS * 0.002 floors to zero
	f.prizePoolRepo.On("Lock", mock.Anything).Return(&entities.PoolSnapshot{
		Revision: 5,
		Balances: map[string]decimal.Decimal{"POINTS": decimal.NewFromInt(2)},
	}, nil)
	f.winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.ticketRepo.On("ConsumeAllForUser", mock.Anything, int64(42)).Return(int64(1), nil)
	f.publisher.On("Publish", mock.Anything).Return(nil)

	result, err := service.Participate(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Empty(t, result.Winnings)

	f.prizePoolRepo.AssertNotCalled(t, "Debit")
	f.balanceRepo.AssertNotCalled(t, "Credit")
}

func TestDrawService_RecentWinners_DefaultLimit(t *testing.T) {
	config.Set(config.NewTestConfig())
	f, service := newDrawFixture(nil)

	f.winnerRepo.On("Recent", mock.Anything, 10).Return([]*entities.WinnerRecord{}, nil)

	_, err := service.RecentWinners(context.Background(), 0)
	require.NoError(t, err)
	f.winnerRepo.AssertExpectations(t)
}

func TestCryptoRoll_Range(t *testing.T) {
	one := decimal.NewFromInt(1)
	for i := 0; i < 1000; i++ {
		r, err := CryptoRoll()
		require.NoError(t, err)
		assert.True(t, r.GreaterThanOrEqual(decimal.Zero), "roll %s below zero", r)
		assert.True(t, r.LessThan(one), "roll %s not below one", r)
	}
}
