package tax

import "context"

// NoTaxCalculator returns zero tax for every order. Used when the store runs
// tax-inclusive pricing or in jurisdictions without sales tax.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// CalculateTax always returns zero.
func (c *NoTaxCalculator) CalculateTax(ctx context.Context, params TaxParams) (*TaxResult, error) {
	return &TaxResult{TotalTaxCents: 0, Rate: 0}, nil
}
