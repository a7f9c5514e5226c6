package shipping

import (
	"context"
)

// Rater computes the shipping charge for an order at checkout.
// Implementations: FlatRateRater, MockRater.
type Rater interface {
	// Rate returns the shipping cost in cents for the given order.
	Rate(ctx context.Context, params RateParams) (*RateResult, error)
}

// RateParams carries what a rater needs to price a shipment.
type RateParams struct {
	ItemsCents    int64
	TotalQuantity int32
	Country       string
	PostalCode    string

	// FreeShipping is set when the cart holds an active free-shipping
	// voucher covering the order.
	FreeShipping bool
}

// RateResult is the priced shipping option.
type RateResult struct {
	CostCents   int64
	ServiceName string
}
