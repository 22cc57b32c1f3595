package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"prizepool/config"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// rollScale is the resolution of the uniform roll: 10^18 distinct outcomes
const rollScale = int64(1e18)

// RollFunc draws a uniform random fraction in [0, 1)
type RollFunc func() (decimal.Decimal, error)

// CryptoRoll draws the fraction from crypto/rand
func CryptoRoll() (decimal.Decimal, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(rollScale))
	if err != nil {
		return decimal.Zero, fmt.Errorf("random generation failed: %w", err)
	}
	return decimal.New(n.Int64(), -18), nil
}

// drawService implements the weighted random draw
type drawService struct {
	ticketRepo     interfaces.TicketRepository
	prizePoolRepo  interfaces.PrizePoolRepository
	winnerRepo     interfaces.WinnerRepository
	balanceRepo    interfaces.BalanceRepository
	eventPublisher interfaces.EventPublisher
	roll           RollFunc
}

// NewDrawService creates a new draw service. A nil roll uses CryptoRoll.
func NewDrawService(
	ticketRepo interfaces.TicketRepository,
	prizePoolRepo interfaces.PrizePoolRepository,
	winnerRepo interfaces.WinnerRepository,
	balanceRepo interfaces.BalanceRepository,
	eventPublisher interfaces.EventPublisher,
	roll RollFunc,
) interfaces.DrawService {
	if roll == nil {
		roll = CryptoRoll
	}
	return &drawService{
		ticketRepo:     ticketRepo,
		prizePoolRepo:  prizePoolRepo,
		winnerRepo:     winnerRepo,
		balanceRepo:    balanceRepo,
		eventPublisher: eventPublisher,
		roll:           roll,
	}
}

// Participate runs one draw for the user. The pool row lock taken up front
// serializes the draw against approval credits and other draws, so the
// ticket counts, the probability and the payout all describe one consistent
// state. The user's entire active holding is retired win or lose.
func (s *drawService) Participate(ctx context.Context, userID int64) (*entities.DrawResult, error) {
	// Fast fail before taking the pool lock
	userTickets, err := s.ticketRepo.ActiveCountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user tickets: %w", err)
	}
	if userTickets == 0 {
		return nil, entities.ErrNoTickets
	}

	snapshot, err := s.prizePoolRepo.Lock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock prize pool: %w", err)
	}

	// Re-read both counts inside the serialized section
	userTickets, err = s.ticketRepo.ActiveCountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user tickets: %w", err)
	}
	if userTickets == 0 {
		return nil, entities.ErrNoTickets
	}
	totalTickets, err := s.ticketRepo.TotalActiveCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count total tickets: %w", err)
	}
	if totalTickets == 0 {
		return nil, entities.ErrNoActiveTickets
	}

	winProbability := decimal.NewFromInt(userTickets).Div(decimal.NewFromInt(totalTickets))

	r, err := s.roll()
	if err != nil {
		return nil, fmt.Errorf("failed to roll: %w", err)
	}
	won := r.LessThan(winProbability)

	log.WithFields(log.Fields{
		"userID":         userID,
		"userTickets":    userTickets,
		"totalTickets":   totalTickets,
		"winProbability": winProbability,
		"roll":           r,
		"poolRevision":   snapshot.Revision,
		"won":            won,
	}).Info("Draw rolled")

	result := &entities.DrawResult{
		Won:            won,
		TicketsUsed:    userTickets,
		TotalTickets:   totalTickets,
		WinProbability: winProbability,
	}

	if won {
		winnings, err := s.payOut(ctx, userID, winProbability, snapshot)
		if err != nil {
			return nil, err
		}
		result.Winnings = winnings

		record := &entities.WinnerRecord{
			UserID:       userID,
			Winnings:     winnings,
			TicketsUsed:  userTickets,
			TotalTickets: totalTickets,
			Roll:         r,
			PoolRevision: snapshot.Revision,
		}
		if err := s.winnerRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create winner record: %w", err)
		}

		if err := s.eventPublisher.Publish(events.DrawWonEvent{
			UserID:       userID,
			Winnings:     winnings,
			PoolRevision: snapshot.Revision,
			Message:      fmt.Sprintf("You won the draw with %d of %d tickets!", userTickets, totalTickets),
		}); err != nil {
			return nil, fmt.Errorf("failed to publish win event: %w", err)
		}
	}

	// A draw always retires the participant's holding, which is what shifts
	// future odds for the remaining ticket holders.
	consumed, err := s.ticketRepo.ConsumeAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume tickets: %w", err)
	}
	if consumed != userTickets {
		return nil, fmt.Errorf("consumed %d tickets, expected %d", consumed, userTickets)
	}

	outcome := "lost"
	if won {
		outcome = "won"
	}
	if err := s.eventPublisher.Publish(events.DrawParticipatedEvent{
		UserID:         userID,
		Won:            won,
		TicketsUsed:    userTickets,
		TotalTickets:   totalTickets,
		WinProbability: winProbability,
		Message:        fmt.Sprintf("Draw %s: %d of %d tickets retired", outcome, userTickets, totalTickets),
	}); err != nil {
		return nil, fmt.Errorf("failed to publish participation event: %w", err)
	}

	return result, nil
}

// payOut debits the capped pool share and credits the user's balance store.
// payoutFraction = min(probability x multiplier, cap); the cap keeps a single
// draw from exhausting the pool however large the user's share is. Amounts
// round down to the currency's precision, so pool debit and user credit
// agree exactly.
func (s *drawService) payOut(ctx context.Context, userID int64, winProbability decimal.Decimal, snapshot *entities.PoolSnapshot) (map[string]decimal.Decimal, error) {
	cfg := config.Get()

	payoutFraction := winProbability.Mul(cfg.PayoutProbabilityMultiplier)
	if payoutFraction.GreaterThan(cfg.MaxPayoutFraction) {
		payoutFraction = cfg.MaxPayoutFraction
	}

	winnings := make(map[string]decimal.Decimal)
	for currency, balance := range snapshot.Balances {
		if !balance.IsPositive() {
			continue
		}
		decimals, ok := cfg.CurrencyDecimals[currency]
		if !ok {
			// Pool balances only ever come from validated payments
			return nil, fmt.Errorf("pool holds unsupported currency %q", currency)
		}

		payout := balance.Mul(payoutFraction).RoundDown(decimals)
		if !payout.IsPositive() {
			continue
		}

		if err := s.prizePoolRepo.Debit(ctx, currency, payout); err != nil {
			return nil, fmt.Errorf("failed to debit pool: %w", err)
		}
		if err := s.balanceRepo.Credit(ctx, userID, currency, payout); err != nil {
			return nil, fmt.Errorf("failed to credit user balance: %w", err)
		}
		winnings[currency] = payout
	}

	return winnings, nil
}

// RecentWinners returns the latest n winner records, newest first
func (s *drawService) RecentWinners(ctx context.Context, n int) ([]*entities.WinnerRecord, error) {
	if n <= 0 {
		n = 10
	}
	records, err := s.winnerRepo.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent winners: %w", err)
	}
	return records, nil
}

// PoolSnapshot returns the current pool balances and revision
func (s *drawService) PoolSnapshot(ctx context.Context) (*entities.PoolSnapshot, error) {
	snapshot, err := s.prizePoolRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot pool: %w", err)
	}
	return snapshot, nil
}
