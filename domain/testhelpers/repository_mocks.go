package testhelpers

import (
	"context"

	"prizepool/domain/entities"
	"prizepool/domain/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) DecideFromPending(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, operatorID int64) (*entities.Payment, error) {
	args := m.Called(ctx, id, status, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, status *entities.PaymentStatus, limit int) ([]*entities.Payment, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) IssueBatch(ctx context.Context, paymentID uuid.UUID, ownerID int64, qty int, unitCost decimal.Decimal) ([]*entities.Ticket, error) {
	args := m.Called(ctx, paymentID, ownerID, qty, unitCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ActiveCountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) TotalActiveCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) ConsumeAllForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) GetByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Ticket, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetParticipantSummary(ctx context.Context) ([]*entities.ParticipantInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ParticipantInfo), args.Error(1)
}

// MockPrizePoolRepository is a mock implementation of PrizePoolRepository
type MockPrizePoolRepository struct {
	mock.Mock
}

func (m *MockPrizePoolRepository) Lock(ctx context.Context) (*entities.PoolSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolSnapshot), args.Error(1)
}

func (m *MockPrizePoolRepository) Snapshot(ctx context.Context) (*entities.PoolSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolSnapshot), args.Error(1)
}

func (m *MockPrizePoolRepository) Credit(ctx context.Context, currency string, amount decimal.Decimal, idempotencyKey uuid.UUID) (bool, error) {
	args := m.Called(ctx, currency, amount, idempotencyKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrizePoolRepository) Debit(ctx context.Context, currency string, amount decimal.Decimal) error {
	args := m.Called(ctx, currency, amount)
	return args.Error(0)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, record *entities.WinnerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockWinnerRepository) Recent(ctx context.Context, n int) ([]*entities.WinnerRecord, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinnerRecord), args.Error(1)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Credit(ctx context.Context, userID int64, currency string, amount decimal.Decimal) error {
	args := m.Called(ctx, userID, currency, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) Get(ctx context.Context, userID int64, currency string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
