package events

import "context"

// NoopPublisher discards all events. Used when no broker is configured and
// in tests.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event.
func (p *NoopPublisher) Publish(ctx context.Context, subject string, payload any) error {
	return nil
}

// Close does nothing.
func (p *NoopPublisher) Close() {}
