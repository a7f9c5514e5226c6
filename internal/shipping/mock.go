package shipping

import (
	"context"
)

// MockRater is a test implementation of Rater.
type MockRater struct {
	RateFunc func(ctx context.Context, params RateParams) (*RateResult, error)
}

// NewMockRater creates a mock that returns free shipping unless configured.
func NewMockRater() *MockRater {
	return &MockRater{}
}

// Rate delegates to the configured function or returns zero cost.
func (m *MockRater) Rate(ctx context.Context, params RateParams) (*RateResult, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, params)
	}
	return &RateResult{CostCents: 0, ServiceName: "Mock"}, nil
}
