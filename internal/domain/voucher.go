package domain

import (
	"time"

	"github.com/google/uuid"
)

// Voucher domain errors.
var (
	ErrVoucherNotFound = &Error{Code: ENOTFOUND, Message: "Voucher not found"}
)

// DiscountKind is a closed set of discount calculations. Unknown kinds are
// rejected at the boundary rather than silently treated as "no discount".
type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Valid reports whether the kind is a known discount calculation.
func (k DiscountKind) Valid() bool {
	switch k {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}

// VoucherKind distinguishes price discounts from shipping promotions.
type VoucherKind string

const (
	VoucherDiscount     VoucherKind = "discount"
	VoucherFreeShipping VoucherKind = "free_shipping"
)

// VariantRef identifies an exact product+variant pair a voucher applies to.
type VariantRef struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

// Voucher is a discount rule scoped to specific products or variants and a
// validity window. DiscountValue is a percentage (0-100) for percentage
// vouchers and an amount in cents for fixed vouchers. MaxDiscountCents of 0
// means uncapped; MinSpendCents of 0 means no minimum.
type Voucher struct {
	ID                 uuid.UUID
	Name               string
	Kind               VoucherKind
	DiscountKind       DiscountKind
	DiscountValue      int64
	MaxDiscountCents   int64
	MinSpendCents      int64
	StartDate          time.Time
	EndDate            time.Time
	Active             bool
	ApplicableProducts []uuid.UUID
	ApplicableVariants []VariantRef
	CreatedAt          time.Time
}

// InWindow reports whether the voucher's validity window covers now.
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && !now.After(v.EndDate)
}

// MeetsMinSpend reports whether spendCents satisfies the voucher's minimum
// spend. Zero means no minimum. Discount vouchers measure spend as the
// undiscounted line subtotal; free-shipping vouchers measure the discounted
// cart total.
func (v *Voucher) MeetsMinSpend(spendCents int64) bool {
	return v.MinSpendCents == 0 || spendCents >= v.MinSpendCents
}

// AppliesTo reports whether the voucher is linked to the product or to the
// exact product+variant pair. Callers must separately check Active and the
// validity window.
func (v *Voucher) AppliesTo(productID, variantID uuid.UUID) bool {
	for _, p := range v.ApplicableProducts {
		if p == productID {
			return true
		}
	}
	for _, ref := range v.ApplicableVariants {
		if ref.ProductID == productID && ref.VariantID == variantID {
			return true
		}
	}
	return false
}
