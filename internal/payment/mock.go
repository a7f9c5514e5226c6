package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider simulates successful gateway flows for tests.
type MockProvider struct {
	// VerifyCaptureFunc overrides capture verification behavior.
	VerifyCaptureFunc func(ctx context.Context, params VerifyParams) (*Capture, error)

	// RefundFunc overrides refund behavior.
	RefundFunc func(ctx context.Context, params RefundParams) (*Refund, error)

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMockProvider creates a mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{CallLog: []string{}}
}

// VerifyCapture returns a completed capture for the expected amount unless
// overridden.
func (m *MockProvider) VerifyCapture(ctx context.Context, params VerifyParams) (*Capture, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("VerifyCapture(%s, %d)", params.CaptureID, params.ExpectedAmountCents))

	if m.VerifyCaptureFunc != nil {
		return m.VerifyCaptureFunc(ctx, params)
	}
	return &Capture{
		CaptureID:   params.CaptureID,
		Status:      "COMPLETED",
		AmountCents: params.ExpectedAmountCents,
		Currency:    params.Currency,
		PaidAt:      time.Now().UTC(),
	}, nil
}

// Refund returns a completed refund unless overridden.
func (m *MockProvider) Refund(ctx context.Context, params RefundParams) (*Refund, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Refund(%s, %d)", params.CaptureID, params.AmountCents))

	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, params)
	}
	return &Refund{
		RefundID:    "ref_" + uuid.New().String(),
		Status:      "COMPLETED",
		AmountCents: params.AmountCents,
	}, nil
}
