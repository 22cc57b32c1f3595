package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePaymentSubmitted EventType = "payment_submitted"
	EventTypePaymentApproved  EventType = "payment_approved"
	EventTypePaymentRejected  EventType = "payment_rejected"
	EventTypeDrawParticipated EventType = "draw_participated"
	EventTypeDrawWon          EventType = "draw_won"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PaymentSubmittedEvent represents a payment entering the verification queue
type PaymentSubmittedEvent struct {
	PaymentID      uuid.UUID       `json:"payment_id"`
	UserID         int64           `json:"user_id"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	TicketQuantity int             `json:"ticket_quantity"`
	Message        string          `json:"message"`
}

func (e PaymentSubmittedEvent) Type() EventType {
	return EventTypePaymentSubmitted
}

// PaymentApprovedEvent represents an approved payment: tickets issued,
// pool credited
type PaymentApprovedEvent struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	UserID        int64           `json:"user_id"`
	OperatorID    int64           `json:"operator_id"`
	TicketsIssued int             `json:"tickets_issued"`
	Currency      string          `json:"currency"`
	PoolCredit    decimal.Decimal `json:"pool_credit"`
	Message       string          `json:"message"`
}

func (e PaymentApprovedEvent) Type() EventType {
	return EventTypePaymentApproved
}

// PaymentRejectedEvent represents a rejected payment
type PaymentRejectedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	UserID     int64     `json:"user_id"`
	OperatorID int64     `json:"operator_id"`
	Message    string    `json:"message"`
}

func (e PaymentRejectedEvent) Type() EventType {
	return EventTypePaymentRejected
}

// DrawParticipatedEvent is the activity-log entry for every draw, win or lose
type DrawParticipatedEvent struct {
	UserID         int64           `json:"user_id"`
	Won            bool            `json:"won"`
	TicketsUsed    int64           `json:"tickets_used"`
	TotalTickets   int64           `json:"total_tickets"`
	WinProbability decimal.Decimal `json:"win_probability"`
	Message        string          `json:"message"`
}

func (e DrawParticipatedEvent) Type() EventType {
	return EventTypeDrawParticipated
}

// DrawWonEvent represents a winning draw and its payout
type DrawWonEvent struct {
	UserID       int64                      `json:"user_id"`
	Winnings     map[string]decimal.Decimal `json:"winnings"`
	PoolRevision int64                      `json:"pool_revision"`
	Message      string                     `json:"message"`
}

func (e DrawWonEvent) Type() EventType {
	return EventTypeDrawWon
}
