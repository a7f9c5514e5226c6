package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart domain errors.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartLineNotFound = &Error{Code: ENOTFOUND, Message: "Cart line not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be at least 1"}
	ErrEmptyCart        = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// CartLine is one product+variant entry in a cart. Pricing fields are
// snapshotted when the line is added or updated; they do not track later
// voucher or catalog changes.
type CartLine struct {
	ID                 uuid.UUID
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	ProductName        string
	VariantFormat      VariantFormat
	ImageURL           string
	UnitPriceCents     int64
	DiscountKind       DiscountKind
	DiscountValueCents int64
	FinalUnitCents     int64
	Quantity           int32
	SubtotalCents      int64
	AppliedVoucherID   uuid.UUID // uuid.Nil when no voucher applied
	CreatedAt          time.Time
}

// Cart is the per-owner cart aggregate. Version supports optimistic
// concurrency: writers check-and-increment it so concurrent mutations from
// multiple devices cannot lose updates.
type Cart struct {
	ID                       uuid.UUID
	OwnerID                  uuid.UUID
	Lines                    []CartLine
	TotalQuantity            int32
	TotalBeforeDiscountCents int64
	TotalDiscountCents       int64
	TotalAfterDiscountCents  int64
	Version                  int32
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Line returns the cart line for the given variant, or nil if absent.
func (c *Cart) Line(variantID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Recalculate recomputes every line subtotal and the aggregate totals from
// the snapshotted line prices. Called before every persist so the stored
// totals always satisfy the cart invariants.
func (c *Cart) Recalculate() {
	c.TotalQuantity = 0
	c.TotalBeforeDiscountCents = 0
	c.TotalAfterDiscountCents = 0

	for i := range c.Lines {
		line := &c.Lines[i]
		line.SubtotalCents = line.FinalUnitCents * int64(line.Quantity)

		c.TotalQuantity += line.Quantity
		c.TotalBeforeDiscountCents += line.UnitPriceCents * int64(line.Quantity)
		c.TotalAfterDiscountCents += line.SubtotalCents
	}

	c.TotalDiscountCents = c.TotalBeforeDiscountCents - c.TotalAfterDiscountCents
}

// EmptyCart returns the zero-value cart served for owners with no cart
// document yet. GetCart never reports NotFound for a missing cart.
func EmptyCart(ownerID uuid.UUID) *Cart {
	return &Cart{
		OwnerID: ownerID,
		Lines:   []CartLine{},
	}
}
