package infrastructure

import (
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops events. Used when no NATS servers are configured.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new noop publisher
func NewNoopEventPublisher() interfaces.EventPublisher {
	return &NoopEventPublisher{}
}

// Publish logs and drops the event
func (p *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event dropped, no publisher configured")
	return nil
}
