package email

import "context"

// Email is a message to be sent.
type Email struct {
	To       []string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender sends emails. Implementations: SMTPSender, MockSender.
type Sender interface {
	// Send sends an email and returns the provider's message ID when
	// available.
	Send(ctx context.Context, email *Email) (string, error)
}
