package shipping

import (
	"context"
)

// FlatRateRater charges a single flat fee, waived above a spend threshold or
// when a free-shipping voucher covers the order.
type FlatRateRater struct {
	costCents     int64
	freeOverCents int64
	serviceName   string
}

// NewFlatRateRater creates a flat-rate rater. freeOverCents of zero disables
// the free-over-threshold rule.
func NewFlatRateRater(costCents, freeOverCents int64) Rater {
	return &FlatRateRater{
		costCents:     costCents,
		freeOverCents: freeOverCents,
		serviceName:   "Standard",
	}
}

// Rate returns the flat fee, or zero when shipping is free.
func (r *FlatRateRater) Rate(ctx context.Context, params RateParams) (*RateResult, error) {
	if params.FreeShipping {
		return &RateResult{CostCents: 0, ServiceName: r.serviceName}, nil
	}
	if r.freeOverCents > 0 && params.ItemsCents >= r.freeOverCents {
		return &RateResult{CostCents: 0, ServiceName: r.serviceName}, nil
	}
	return &RateResult{CostCents: r.costCents, ServiceName: r.serviceName}, nil
}
