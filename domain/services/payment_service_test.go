package services

import (
	"context"
	"testing"

	"prizepool/config"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"
	"prizepool/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentServiceFixture() (*testhelpers.MockPaymentRepository, *testhelpers.MockTicketRepository, *testhelpers.MockPrizePoolRepository, *testhelpers.MockEventPublisher, interfaces.PaymentService) {
	paymentRepo := new(testhelpers.MockPaymentRepository)
	ticketRepo := new(testhelpers.MockTicketRepository)
	prizePoolRepo := new(testhelpers.MockPrizePoolRepository)
	publisher := new(testhelpers.MockEventPublisher)
	service := NewPaymentService(paymentRepo, ticketRepo, prizePoolRepo, publisher)
	return paymentRepo, ticketRepo, prizePoolRepo, publisher, service
}

func validSubmitInput() interfaces.SubmitPaymentInput {
	return interfaces.SubmitPaymentInput{
		UserID:         42,
		Currency:       "USDT",
		Amount:         decimal.NewFromInt(10),
		TicketQuantity: 5,
		WalletAddress:  "EQabc123",
		TxRef:          "tx-001",
	}
}

func TestPaymentService_SubmitPayment_Validation(t *testing.T) {
	config.Set(config.NewTestConfig())

	tests := []struct {
		name   string
		mutate func(*interfaces.SubmitPaymentInput)
		field  string
	}{
		{
			name:   "zero ticket quantity",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.TicketQuantity = 0 },
			field:  "ticket_quantity",
		},
		{
			name:   "negative ticket quantity",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.TicketQuantity = -3 },
			field:  "ticket_quantity",
		},
		{
			name:   "unsupported currency",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.Currency = "DOGE" },
			field:  "currency",
		},
		{
			name:   "empty wallet address",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.WalletAddress = "  " },
			field:  "wallet_address",
		},
		{
			name:   "empty tx ref",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.TxRef = "" },
			field:  "tx_ref",
		},
		{
			name:   "amount does not match quantity",
			mutate: func(in *interfaces.SubmitPaymentInput) { in.Amount = decimal.NewFromInt(9) },
			field:  "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paymentRepo, _, _, _, service := newPaymentServiceFixture()

			input := validSubmitInput()
			tt.mutate(&input)

			payment, err := service.SubmitPayment(context.Background(), input)
			require.Error(t, err)
			assert.Nil(t, payment)

			var vErr *entities.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)

			paymentRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestPaymentService_SubmitPayment_CreatesPendingPayment(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, _, _, publisher, service := newPaymentServiceFixture()

	paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Payment")).Return(nil)
	publisher.On("Publish", mock.AnythingOfType("events.PaymentSubmittedEvent")).Return(nil)

	input := validSubmitInput()
	input.Currency = "usdt" // normalized to upper case

	payment, err := service.SubmitPayment(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, entities.PaymentStatusPending, payment.Status)
	assert.Equal(t, "USDT", payment.Currency)
	assert.Equal(t, int64(42), payment.UserID)
	assert.Equal(t, 5, payment.TicketQuantity)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(10)))
	assert.NotEqual(t, uuid.Nil, payment.ID)

	paymentRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPaymentService_Approve_CreditsPoolAndIssuesTickets(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, ticketRepo, prizePoolRepo, publisher, service := newPaymentServiceFixture()

	paymentID := uuid.New()
	approved := &entities.Payment{
		ID:             paymentID,
		UserID:         42,
		Currency:       "USDT",
		Amount:         decimal.NewFromInt(10),
		TicketQuantity: 5,
		Status:         entities.PaymentStatusApproved,
	}

	paymentRepo.On("DecideFromPending", mock.Anything, paymentID, entities.PaymentStatusApproved, int64(7)).
		Return(approved, nil)
	prizePoolRepo.On("Lock", mock.Anything).
		Return(&entities.PoolSnapshot{Revision: 3, Balances: map[string]decimal.Decimal{}}, nil)

	// Half of the 10 USDT payment funds the pool
	prizePoolRepo.On("Credit", mock.Anything, "USDT",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(5)) }),
		paymentID).Return(true, nil)

	issued := make([]*entities.Ticket, 5)
	for i := range issued {
		issued[i] = &entities.Ticket{ID: int64(i + 1), OwnerID: 42, TicketNumber: int64(100 + i)}
	}
	ticketRepo.On("IssueBatch", mock.Anything, paymentID, int64(42), 5,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(2)) })).
		Return(issued, nil)

	publisher.On("Publish", mock.AnythingOfType("events.PaymentApprovedEvent")).Return(nil)

	payment, err := service.Decide(context.Background(), paymentID, interfaces.PaymentOutcomeApprove, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusApproved, payment.Status)

	paymentRepo.AssertExpectations(t)
	prizePoolRepo.AssertExpectations(t)
	ticketRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPaymentService_Approve_RoundsContributionDown(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.TicketUnitPrice = decimal.RequireFromString("1.25")
	config.Set(cfg)
	t.Cleanup(func() { config.Set(config.NewTestConfig()) })

	paymentRepo, ticketRepo, prizePoolRepo, publisher, service := newPaymentServiceFixture()

	paymentID := uuid.New()
	approved := &entities.Payment{
		ID:             paymentID,
		UserID:         9,
		Currency:       "POINTS",
		Amount:         decimal.RequireFromString("3.75"),
		TicketQuantity: 3,
		Status:         entities.PaymentStatusApproved,
	}

	paymentRepo.On("DecideFromPending", mock.Anything, paymentID, entities.PaymentStatusApproved, int64(1)).
		Return(approved, nil)
	prizePoolRepo.On("Lock", mock.Anything).
		Return(&entities.PoolSnapshot{Revision: 1, Balances: map[string]decimal.Decimal{}}, nil)

	// 3.75 * 0.5 = 1.875, floored to whole POINTS
	prizePoolRepo.On("Credit", mock.Anything, "POINTS",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(1)) }),
		paymentID).Return(true, nil)
	ticketRepo.On("IssueBatch", mock.Anything, paymentID, int64(9), 3, mock.Anything).
		Return([]*entities.Ticket{{}, {}, {}}, nil)
	publisher.On("Publish", mock.AnythingOfType("events.PaymentApprovedEvent")).Return(nil)

	_, err := service.Decide(context.Background(), paymentID, interfaces.PaymentOutcomeApprove, 1)
	require.NoError(t, err)
	prizePoolRepo.AssertExpectations(t)
}

func TestPaymentService_Decide_AlreadyProcessed(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, ticketRepo, prizePoolRepo, publisher, service := newPaymentServiceFixture()

	paymentID := uuid.New()
	paymentRepo.On("DecideFromPending", mock.Anything, paymentID, entities.PaymentStatusApproved, int64(7)).
		Return(nil, entities.ErrAlreadyProcessed)

	payment, err := service.Decide(context.Background(), paymentID, interfaces.PaymentOutcomeApprove, 7)
	require.ErrorIs(t, err, entities.ErrAlreadyProcessed)
	assert.Nil(t, payment)

	// A repeat decision must not touch the pool, the ledger or the bus
	prizePoolRepo.AssertNotCalled(t, "Lock")
	prizePoolRepo.AssertNotCalled(t, "Credit")
	ticketRepo.AssertNotCalled(t, "IssueBatch")
	publisher.AssertNotCalled(t, "Publish")
}

func TestPaymentService_Reject_FlipsStatusOnly(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, ticketRepo, prizePoolRepo, publisher, service := newPaymentServiceFixture()

	paymentID := uuid.New()
	rejected := &entities.Payment{
		ID:     paymentID,
		UserID: 42,
		Status: entities.PaymentStatusRejected,
	}

	paymentRepo.On("DecideFromPending", mock.Anything, paymentID, entities.PaymentStatusRejected, int64(7)).
		Return(rejected, nil)
	publisher.On("Publish", mock.AnythingOfType("events.PaymentRejectedEvent")).Return(nil)

	payment, err := service.Decide(context.Background(), paymentID, interfaces.PaymentOutcomeReject, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusRejected, payment.Status)

	prizePoolRepo.AssertNotCalled(t, "Lock")
	prizePoolRepo.AssertNotCalled(t, "Credit")
	ticketRepo.AssertNotCalled(t, "IssueBatch")
	publisher.AssertExpectations(t)
}

func TestPaymentService_Decide_UnknownOutcome(t *testing.T) {
	config.Set(config.NewTestConfig())
	_, _, _, _, service := newPaymentServiceFixture()

	_, err := service.Decide(context.Background(), uuid.New(), interfaces.PaymentOutcome("maybe"), 7)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "decision", vErr.Field)
}

func TestPaymentService_Approve_IdempotentPoolCredit(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, ticketRepo, prizePoolRepo, publisher, service := newPaymentServiceFixture()

	paymentID := uuid.New()
	approved := &entities.Payment{
		ID:             paymentID,
		UserID:         42,
		Currency:       "USDT",
		Amount:         decimal.NewFromInt(4),
		TicketQuantity: 2,
		Status:         entities.PaymentStatusApproved,
	}

	paymentRepo.On("DecideFromPending", mock.Anything, paymentID, entities.PaymentStatusApproved, int64(7)).
		Return(approved, nil)
	prizePoolRepo.On("Lock", mock.Anything).
		Return(&entities.PoolSnapshot{Revision: 8, Balances: map[string]decimal.Decimal{}}, nil)
	// Credit already recorded by a prior crashed attempt
	prizePoolRepo.On("Credit", mock.Anything, "USDT", mock.Anything, paymentID).Return(false, nil)
	ticketRepo.On("IssueBatch", mock.Anything, paymentID, int64(42), 2, mock.Anything).
		Return([]*entities.Ticket{{}, {}}, nil)
	publisher.On("Publish", mock.AnythingOfType("events.PaymentApprovedEvent")).Return(nil)

	_, err := service.Decide(context.Background(), paymentID, interfaces.PaymentOutcomeApprove, 7)
	require.NoError(t, err)
	ticketRepo.AssertExpectations(t)
}

func TestPaymentService_ListPayments_DefaultLimit(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, _, _, _, service := newPaymentServiceFixture()

	paymentRepo.On("List", mock.Anything, (*entities.PaymentStatus)(nil), 50).
		Return([]*entities.Payment{}, nil)

	_, err := service.ListPayments(context.Background(), nil, 0)
	require.NoError(t, err)
	paymentRepo.AssertExpectations(t)
}

func TestPaymentService_SubmitPayment_PublishesEvent(t *testing.T) {
	config.Set(config.NewTestConfig())
	paymentRepo, _, _, publisher, service := newPaymentServiceFixture()

	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		evt, ok := e.(events.PaymentSubmittedEvent)
		return ok && evt.UserID == 42 && evt.TicketQuantity == 5
	})).Return(nil)

	_, err := service.SubmitPayment(context.Background(), validSubmitInput())
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
