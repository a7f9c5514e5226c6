package tax_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollowaybooks/folio/internal/tax"
)

func Test_PercentageCalculator_Rates(t *testing.T) {
	tests := []struct {
		name        string
		rate        float64
		items       int64
		shipping    int64
		expectedTax int64
		explanation string
	}{
		{
			name:        "zero percent rate",
			rate:        0.0,
			items:       10000,
			shipping:    500,
			expectedTax: 0,
			explanation: "(10000 + 500) * 0.00 = 0",
		},
		{
			name:        "eight percent rate",
			rate:        0.08,
			items:       5000,
			shipping:    1000,
			expectedTax: 480,
			explanation: "(5000 + 1000) * 0.08 = 480",
		},
		{
			name:        "shipping only",
			rate:        0.08,
			items:       0,
			shipping:    1000,
			expectedTax: 80,
			explanation: "tax applies to shipping even with no items",
		},
		{
			name:        "rounds up above midpoint",
			rate:        0.08,
			items:       1062,
			shipping:    0,
			expectedTax: 85,
			explanation: "1062 * 0.08 = 84.96, rounds to 85",
		},
		{
			name:        "rounds down below midpoint",
			rate:        0.08,
			items:       1040,
			shipping:    0,
			expectedTax: 83,
			explanation: "1040 * 0.08 = 83.2, rounds to 83",
		},
		{
			name:        "fractional cents round half up",
			rate:        0.065,
			items:       1537,
			shipping:    0,
			expectedTax: 100,
			explanation: "1537 * 0.065 = 99.905, rounds to 100",
		},
		{
			name:        "negative rate clamps to zero",
			rate:        -0.05,
			items:       10000,
			shipping:    0,
			expectedTax: 0,
			explanation: "nonsense rates never produce negative tax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := tax.NewPercentageCalculator(tt.rate)

			result, err := calc.CalculateTax(context.Background(), tax.TaxParams{
				ItemsCents:    tt.items,
				ShippingCents: tt.shipping,
			})

			assert.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expectedTax, result.TotalTaxCents, tt.explanation)
		})
	}
}

func Test_NoTaxCalculator(t *testing.T) {
	calc := tax.NewNoTaxCalculator()

	result, err := calc.CalculateTax(context.Background(), tax.TaxParams{
		ItemsCents:    99999,
		ShippingCents: 500,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalTaxCents)
}
