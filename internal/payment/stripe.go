package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider implements Provider against the Stripe API. The capture ID
// is the PaymentIntent ID the storefront confirmed.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed payment provider.
func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

// VerifyCapture fetches the PaymentIntent and confirms it succeeded for at
// least the expected amount.
func (p *StripeProvider) VerifyCapture(ctx context.Context, params VerifyParams) (*Capture, error) {
	pi, err := p.api.PaymentIntents.Get(params.CaptureID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrCaptureNotFound
		}
		return nil, fmt.Errorf("stripe get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrNotCaptured
	}
	if pi.Amount < params.ExpectedAmountCents {
		return nil, ErrAmountMismatch
	}
	if params.Currency != "" && !strings.EqualFold(string(pi.Currency), params.Currency) {
		return nil, ErrAmountMismatch
	}

	return &Capture{
		CaptureID:   pi.ID,
		Status:      string(pi.Status),
		AmountCents: pi.Amount,
		Currency:    string(pi.Currency),
		PaidAt:      time.Unix(pi.Created, 0).UTC(),
	}, nil
}

// Refund issues a refund against the PaymentIntent.
func (p *StripeProvider) Refund(ctx context.Context, params RefundParams) (*Refund, error) {
	r, err := p.api.Refunds.New(&stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(params.CaptureID),
		Amount:        stripe.Int64(params.AmountCents),
	})
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.HTTPStatusCode == 404 {
			return nil, ErrCaptureNotFound
		}
		return nil, fmt.Errorf("stripe refund: %w", err)
	}
	return &Refund{
		RefundID:    r.ID,
		Status:      string(r.Status),
		AmountCents: r.Amount,
	}, nil
}
