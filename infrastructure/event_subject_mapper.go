package infrastructure

import (
	"fmt"

	"prizepool/domain/events"
)

// EventSubjectMapper maps domain events to NATS subjects
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a mapper with the given subject prefix
func NewEventSubjectMapper(prefix string) *EventSubjectMapper {
	if prefix == "" {
		prefix = "lottery"
	}
	return &EventSubjectMapper{prefix: prefix}
}

// MapEventToSubject returns the NATS subject for an event
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePaymentSubmitted:
		return fmt.Sprintf("%s.payment.submitted", m.prefix)
	case events.EventTypePaymentApproved:
		return fmt.Sprintf("%s.payment.approved", m.prefix)
	case events.EventTypePaymentRejected:
		return fmt.Sprintf("%s.payment.rejected", m.prefix)
	case events.EventTypeDrawParticipated:
		return fmt.Sprintf("%s.draw.participated", m.prefix)
	case events.EventTypeDrawWon:
		return fmt.Sprintf("%s.draw.won", m.prefix)
	default:
		return fmt.Sprintf("%s.event.%s", m.prefix, event.Type())
	}
}
