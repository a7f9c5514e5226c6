package tax

import (
	"context"
	"math"
)

// PercentageCalculator applies a single flat rate to items plus shipping.
type PercentageCalculator struct {
	rate float64
}

// NewPercentageCalculator creates a calculator with the given rate,
// e.g. 0.08 for 8%.
func NewPercentageCalculator(rate float64) Calculator {
	if rate < 0 {
		rate = 0
	}
	return &PercentageCalculator{rate: rate}
}

// CalculateTax computes tax on items + shipping, rounded half-up to the cent.
func (c *PercentageCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	taxable := params.ItemsCents + params.ShippingCents
	if taxable < 0 {
		taxable = 0
	}
	cents := int64(math.Floor(float64(taxable)*c.rate + 0.5))
	return &TaxResult{TotalTaxCents: cents, Rate: c.rate}, nil
}
