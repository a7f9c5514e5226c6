package tax

import (
	"context"
)

// Calculator computes the tax charged on an order at checkout.
// Implementations: PercentageCalculator, NoTaxCalculator, MockCalculator.
type Calculator interface {
	// CalculateTax computes tax for the order's line items and shipping.
	// Returns the tax amount in cents.
	CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error)
}

// TaxParams carries everything a calculator needs.
type TaxParams struct {
	Country       string
	State         string
	PostalCode    string
	ItemsCents    int64
	ShippingCents int64
}

// TaxResult is the calculated tax amount.
type TaxResult struct {
	TotalTaxCents int64
	Rate          float64
}
