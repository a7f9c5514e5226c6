package email

import (
	"context"
	"sync"
)

// MockSender records sent emails for test assertions.
type MockSender struct {
	SendFunc func(ctx context.Context, email *Email) (string, error)

	mu   sync.Mutex
	Sent []*Email
}

// NewMockSender creates a mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the email and succeeds unless overridden.
func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, email)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	return "mock-message-id", nil
}
