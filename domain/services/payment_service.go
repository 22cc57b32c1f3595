package services

import (
	"context"
	"fmt"
	"strings"

	"prizepool/config"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// paymentService implements payment intake and the operator approval workflow
type paymentService struct {
	paymentRepo    interfaces.PaymentRepository
	ticketRepo     interfaces.TicketRepository
	prizePoolRepo  interfaces.PrizePoolRepository
	eventPublisher interfaces.EventPublisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo interfaces.PaymentRepository,
	ticketRepo interfaces.TicketRepository,
	prizePoolRepo interfaces.PrizePoolRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		ticketRepo:     ticketRepo,
		prizePoolRepo:  prizePoolRepo,
		eventPublisher: eventPublisher,
	}
}

// SubmitPayment validates a ticket-purchase submission and creates a pending
// payment. Nothing else moves: tickets and pool funding wait for the
// operator decision.
func (s *paymentService) SubmitPayment(ctx context.Context, input interfaces.SubmitPaymentInput) (*entities.Payment, error) {
	cfg := config.Get()

	if input.TicketQuantity <= 0 {
		return nil, entities.NewValidationError("ticket_quantity", "must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !cfg.IsSupportedCurrency(currency) {
		return nil, entities.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", input.Currency))
	}
	if strings.TrimSpace(input.WalletAddress) == "" {
		return nil, entities.NewValidationError("wallet_address", "must not be empty")
	}
	if strings.TrimSpace(input.TxRef) == "" {
		return nil, entities.NewValidationError("tx_ref", "must not be empty")
	}

	expected := cfg.TicketUnitPrice.Mul(decimal.NewFromInt(int64(input.TicketQuantity)))
	if !input.Amount.Equal(expected) {
		return nil, entities.NewValidationError("amount",
			fmt.Sprintf("must equal ticket_quantity x unit price (%d x %s = %s), got %s",
				input.TicketQuantity, cfg.TicketUnitPrice, expected, input.Amount))
	}

	payment := &entities.Payment{
		ID:             uuid.New(),
		UserID:         input.UserID,
		Currency:       currency,
		Amount:         input.Amount,
		TicketQuantity: input.TicketQuantity,
		WalletAddress:  strings.TrimSpace(input.WalletAddress),
		TxRef:          strings.TrimSpace(input.TxRef),
		Status:         entities.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PaymentSubmittedEvent{
		PaymentID:      payment.ID,
		UserID:         payment.UserID,
		Currency:       payment.Currency,
		Amount:         payment.Amount,
		TicketQuantity: payment.TicketQuantity,
		Message:        fmt.Sprintf("Payment of %s %s submitted for verification", payment.Amount, payment.Currency),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish submission event: %w", err)
	}

	log.WithFields(log.Fields{
		"paymentID": payment.ID,
		"userID":    payment.UserID,
		"amount":    payment.Amount,
		"currency":  payment.Currency,
		"tickets":   payment.TicketQuantity,
	}).Info("Payment submitted for verification")

	return payment, nil
}

// Decide applies an operator decision to a pending payment. The status CAS
// in the repository is the idempotency boundary: a payment that is no longer
// pending surfaces entities.ErrAlreadyProcessed before anything is touched.
// On approve, the pool credit, the ticket batch and the status flip share
// the caller's unit of work and commit together or not at all.
func (s *paymentService) Decide(ctx context.Context, paymentID uuid.UUID, outcome interfaces.PaymentOutcome, operatorID int64) (*entities.Payment, error) {
	switch outcome {
	case interfaces.PaymentOutcomeApprove:
		return s.approve(ctx, paymentID, operatorID)
	case interfaces.PaymentOutcomeReject:
		return s.reject(ctx, paymentID, operatorID)
	default:
		return nil, entities.NewValidationError("decision", fmt.Sprintf("unknown outcome %q", outcome))
	}
}

func (s *paymentService) approve(ctx context.Context, paymentID uuid.UUID, operatorID int64) (*entities.Payment, error) {
	payment, err := s.paymentRepo.DecideFromPending(ctx, paymentID, entities.PaymentStatusApproved, operatorID)
	if err != nil {
		return nil, err
	}

	// Serialize against concurrent draws before funding the pool
	if _, err := s.prizePoolRepo.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock prize pool: %w", err)
	}

	cfg := config.Get()
	decimals, ok := cfg.CurrencyDecimals[payment.Currency]
	if !ok {
		return nil, fmt.Errorf("payment %s carries unsupported currency %q", payment.ID, payment.Currency)
	}
	contribution := payment.Amount.Mul(cfg.PoolContributionFraction).RoundDown(decimals)

	credited, err := s.prizePoolRepo.Credit(ctx, payment.Currency, contribution, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit prize pool: %w", err)
	}
	if !credited {
		// A previous attempt funded the pool before crashing; only the
		// remaining steps are replayed.
		log.WithField("paymentID", payment.ID).Warn("Pool credit skipped, idempotency key already known")
	}

	tickets, err := s.ticketRepo.IssueBatch(ctx, payment.ID, payment.UserID, payment.TicketQuantity, payment.UnitCost())
	if err != nil {
		return nil, fmt.Errorf("failed to issue tickets: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PaymentApprovedEvent{
		PaymentID:     payment.ID,
		UserID:        payment.UserID,
		OperatorID:    operatorID,
		TicketsIssued: len(tickets),
		Currency:      payment.Currency,
		PoolCredit:    contribution,
		Message:       fmt.Sprintf("Payment approved, %d tickets issued", len(tickets)),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish approval event: %w", err)
	}

	log.WithFields(log.Fields{
		"paymentID":  payment.ID,
		"userID":     payment.UserID,
		"operatorID": operatorID,
		"tickets":    len(tickets),
		"poolCredit": contribution,
		"currency":   payment.Currency,
	}).Info("Payment approved")

	return payment, nil
}

func (s *paymentService) reject(ctx context.Context, paymentID uuid.UUID, operatorID int64) (*entities.Payment, error) {
	payment, err := s.paymentRepo.DecideFromPending(ctx, paymentID, entities.PaymentStatusRejected, operatorID)
	if err != nil {
		return nil, err
	}

	// No escrow is held here; verification already happened out of band,
	// so a rejection is status plus notification only.
	if err := s.eventPublisher.Publish(events.PaymentRejectedEvent{
		PaymentID:  payment.ID,
		UserID:     payment.UserID,
		OperatorID: operatorID,
		Message:    "Payment rejected",
	}); err != nil {
		return nil, fmt.Errorf("failed to publish rejection event: %w", err)
	}

	log.WithFields(log.Fields{
		"paymentID":  payment.ID,
		"userID":     payment.UserID,
		"operatorID": operatorID,
	}).Info("Payment rejected")

	return payment, nil
}

// ListPayments returns payments newest first, optionally filtered by status
func (s *paymentService) ListPayments(ctx context.Context, status *entities.PaymentStatus, limit int) ([]*entities.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	payments, err := s.paymentRepo.List(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
