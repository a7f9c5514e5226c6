// Package pricing computes discounted line prices from vouchers.
//
// All arithmetic is in integer cents. Percentage discounts round half-up on
// the cent boundary; no intermediate value is ever held as a binary float.
package pricing

import (
	"sort"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
)

// Quote is the resolved price for one unit of a variant.
type Quote struct {
	FinalUnitCents int64
	DiscountCents  int64
	DiscountKind   domain.DiscountKind
	VoucherID      uuid.UUID // uuid.Nil when no voucher applied
}

// ApplyDiscount computes the discounted unit price for a base price under a
// voucher. A nil voucher (or one whose kind is DiscountNone) leaves the price
// unchanged. The effective discount is capped at MaxDiscountCents when set,
// and the final price is clamped at zero.
func ApplyDiscount(basePriceCents int64, v *domain.Voucher) Quote {
	if v == nil || v.DiscountKind == domain.DiscountNone {
		return Quote{FinalUnitCents: basePriceCents, DiscountKind: domain.DiscountNone}
	}

	var discount int64
	switch v.DiscountKind {
	case domain.DiscountPercentage:
		// Round half-up on the cent boundary in pure integer arithmetic.
		discount = (basePriceCents*v.DiscountValue + 50) / 100
	case domain.DiscountFixed:
		discount = v.DiscountValue
	}

	if v.MaxDiscountCents > 0 && discount > v.MaxDiscountCents {
		discount = v.MaxDiscountCents
	}
	if discount > basePriceCents {
		discount = basePriceCents
	}
	if discount < 0 {
		discount = 0
	}

	return Quote{
		FinalUnitCents: basePriceCents - discount,
		DiscountCents:  discount,
		DiscountKind:   v.DiscountKind,
		VoucherID:      v.ID,
	}
}

// BestVoucher selects the voucher to apply to a line: among candidates linked
// to the product or the exact product+variant pair whose minimum spend the
// undiscounted line subtotal (base price times quantity) meets, the one
// producing the largest discount wins; equal discounts fall back to earliest
// creation time. Candidates must already be filtered to active, in-window
// discount vouchers; this function checks linkage and minimum spend only.
//
// The best-discount-wins rule makes selection deterministic regardless of the
// order the store returns candidates in.
func BestVoucher(basePriceCents int64, quantity int32, productID, variantID uuid.UUID, candidates []domain.Voucher) *domain.Voucher {
	lineSpendCents := basePriceCents * int64(quantity)

	applicable := make([]*domain.Voucher, 0, len(candidates))
	for i := range candidates {
		v := &candidates[i]
		if v.Kind != domain.VoucherDiscount {
			continue
		}
		if v.AppliesTo(productID, variantID) && v.MeetsMinSpend(lineSpendCents) {
			applicable = append(applicable, v)
		}
	}
	if len(applicable) == 0 {
		return nil
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		di := ApplyDiscount(basePriceCents, applicable[i]).DiscountCents
		dj := ApplyDiscount(basePriceCents, applicable[j]).DiscountCents
		if di != dj {
			return di > dj
		}
		return applicable[i].CreatedAt.Before(applicable[j].CreatedAt)
	})

	return applicable[0]
}

// QuoteLine resolves the voucher for a product+variant and applies it to the
// base price in one step. Minimum spend is evaluated against the quantity
// being added; the resulting per-unit price is then snapshotted on the line.
func QuoteLine(basePriceCents int64, quantity int32, productID, variantID uuid.UUID, candidates []domain.Voucher) Quote {
	return ApplyDiscount(basePriceCents, BestVoucher(basePriceCents, quantity, productID, variantID, candidates))
}
