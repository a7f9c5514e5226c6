package payment

import (
	"context"
	"time"
)

// Provider verifies and refunds gateway payments. The storefront completes
// the payment in the browser; the server confirms the capture against the
// gateway before marking the order paid.
// Implementations: StripeProvider, PayPalProvider, MockProvider.
type Provider interface {
	// VerifyCapture confirms that the referenced payment was captured for at
	// least the expected amount. Returns the gateway's capture record.
	VerifyCapture(ctx context.Context, params VerifyParams) (*Capture, error)

	// Refund returns funds for a previously verified capture.
	Refund(ctx context.Context, params RefundParams) (*Refund, error)
}

// VerifyParams identifies the payment to confirm.
type VerifyParams struct {
	CaptureID           string
	ExpectedAmountCents int64
	Currency            string
}

// Capture is the gateway's record of a settled payment.
type Capture struct {
	CaptureID   string
	Status      string
	AmountCents int64
	Currency    string
	PaidAt      time.Time
}

// RefundParams identifies the capture to refund.
type RefundParams struct {
	CaptureID   string
	AmountCents int64
	Reason      string
}

// Refund is the gateway's record of a refund.
type Refund struct {
	RefundID    string
	Status      string
	AmountCents int64
}
