package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
)

// View types are the JSON shapes the API returns. Domain types stay free of
// transport tags; mapping happens here.

type VariantView struct {
	ID           uuid.UUID `json:"id"`
	Format       string    `json:"format"`
	PriceCents   int64     `json:"price_cents"`
	CountInStock int32     `json:"count_in_stock"`
	ImageURL     string    `json:"image_url,omitempty"`
}

type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Author      string        `json:"author,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Variants    []VariantView `json:"variants"`
}

// NewProductView maps a product with its variants.
func NewProductView(p *domain.Product) ProductView {
	variants := make([]VariantView, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantView{
			ID:           v.ID,
			Format:       string(v.Format),
			PriceCents:   v.PriceCents,
			CountInStock: v.CountInStock,
			ImageURL:     v.ImageURL,
		})
	}
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Author:      p.Author,
		Description: p.Description,
		Category:    p.Category,
		Variants:    variants,
	}
}

// NewProductViews maps a product list.
func NewProductViews(products []domain.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for i := range products {
		out = append(out, NewProductView(&products[i]))
	}
	return out
}

type CartLineView struct {
	ProductID          uuid.UUID `json:"product_id"`
	VariantID          uuid.UUID `json:"variant_id"`
	ProductName        string    `json:"product_name"`
	Format             string    `json:"format"`
	UnitPriceCents     int64     `json:"unit_price_cents"`
	FinalUnitCents     int64     `json:"final_unit_cents"`
	DiscountValueCents int64     `json:"discount_value_cents,omitempty"`
	Quantity           int32     `json:"quantity"`
	SubtotalCents      int64     `json:"subtotal_cents"`
}

type CartView struct {
	OwnerID                  uuid.UUID      `json:"owner_id"`
	Lines                    []CartLineView `json:"lines"`
	TotalQuantity            int32          `json:"total_quantity"`
	TotalBeforeDiscountCents int64          `json:"total_before_discount_cents"`
	TotalDiscountCents       int64          `json:"total_discount_cents"`
	TotalAfterDiscountCents  int64          `json:"total_after_discount_cents"`
}

// NewCartView maps a cart aggregate.
func NewCartView(c *domain.Cart) CartView {
	lines := make([]CartLineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineView{
			ProductID:          l.ProductID,
			VariantID:          l.VariantID,
			ProductName:        l.ProductName,
			Format:             string(l.VariantFormat),
			UnitPriceCents:     l.UnitPriceCents,
			FinalUnitCents:     l.FinalUnitCents,
			DiscountValueCents: l.DiscountValueCents,
			Quantity:           l.Quantity,
			SubtotalCents:      l.SubtotalCents,
		})
	}
	return CartView{
		OwnerID:                  c.OwnerID,
		Lines:                    lines,
		TotalQuantity:            c.TotalQuantity,
		TotalBeforeDiscountCents: c.TotalBeforeDiscountCents,
		TotalDiscountCents:       c.TotalDiscountCents,
		TotalAfterDiscountCents:  c.TotalAfterDiscountCents,
	}
}

type OrderLineView struct {
	ProductID            uuid.UUID `json:"product_id"`
	VariantID            uuid.UUID `json:"variant_id"`
	Name                 string    `json:"name"`
	Format               string    `json:"format"`
	OriginalPriceCents   int64     `json:"original_price_cents"`
	DiscountedPriceCents int64     `json:"discounted_price_cents"`
	Quantity             int32     `json:"quantity"`
	ItemTotalCents       int64     `json:"item_total_cents"`
}

type AddressView struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

type RequestView struct {
	Requested   bool       `json:"requested"`
	Reason      string     `json:"reason,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	Lines           []OrderLineView `json:"lines"`
	ShippingAddress AddressView     `json:"shipping_address"`
	ItemsPriceCents int64           `json:"items_price_cents"`
	TaxPriceCents   int64           `json:"tax_price_cents"`
	ShippingCents   int64           `json:"shipping_cents"`
	TotalPriceCents int64           `json:"total_price_cents"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelRequest   *RequestView    `json:"cancel_request,omitempty"`
	ReturnRequest   *RequestView    `json:"return_request,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewOrderView maps an order snapshot plus its workflow state.
func NewOrderView(o *domain.Order) OrderView {
	lines := make([]OrderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineView{
			ProductID:            l.ProductID,
			VariantID:            l.VariantID,
			Name:                 l.Name,
			Format:               string(l.Format),
			OriginalPriceCents:   l.OriginalPriceCents,
			DiscountedPriceCents: l.DiscountedPriceCents,
			Quantity:             l.Quantity,
			ItemTotalCents:       l.ItemTotalCents,
		})
	}

	view := OrderView{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		IsPaid:        o.IsPaid,
		Lines:         lines,
		ShippingAddress: AddressView{
			FullName:   o.ShippingAddress.FullName,
			Line1:      o.ShippingAddress.Line1,
			Line2:      o.ShippingAddress.Line2,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
			Phone:      o.ShippingAddress.Phone,
		},
		ItemsPriceCents: o.ItemsPriceCents,
		TaxPriceCents:   o.TaxPriceCents,
		ShippingCents:   o.ShippingCents,
		TotalPriceCents: o.TotalPriceCents,
		CreatedAt:       o.CreatedAt,
	}

	view.PaidAt = timePtr(o.PaidAt)
	view.DeliveredAt = timePtr(o.DeliveredAt)
	view.RefundedAt = timePtr(o.RefundedAt)

	if o.CancelRequest.Requested {
		view.CancelRequest = &RequestView{
			Requested:   true,
			Reason:      o.CancelRequest.Reason,
			RequestedAt: timePtr(o.CancelRequest.RequestedAt),
		}
	}
	if o.ReturnRequest.Requested {
		view.ReturnRequest = &RequestView{
			Requested:   true,
			Reason:      o.ReturnRequest.Reason,
			RequestedAt: timePtr(o.ReturnRequest.RequestedAt),
			Status:      string(o.ReturnRequest.Status),
		}
	}
	return view
}

// NewOrderViews maps an order list.
func NewOrderViews(orders []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderView(&orders[i]))
	}
	return out
}

type WalletView struct {
	OwnerID      uuid.UUID `json:"owner_id"`
	BalanceCents int64     `json:"balance_cents"`
}

// NewWalletView maps a wallet.
func NewWalletView(w *domain.Wallet) WalletView {
	return WalletView{
		OwnerID:      w.OwnerID,
		BalanceCents: w.BalanceCents,
	}
}

type WalletTransactionView struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewWalletTransactionViews maps ledger entries.
func NewWalletTransactionViews(txs []domain.WalletTransaction) []WalletTransactionView {
	out := make([]WalletTransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, WalletTransactionView{
			ID:          tx.ID,
			Type:        string(tx.Type),
			AmountCents: tx.AmountCents,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return out
}

type VariantRefView struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
}

type VoucherView struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Kind               string           `json:"kind"`
	DiscountKind       string           `json:"discount_kind"`
	DiscountValue      int64            `json:"discount_value"`
	MaxDiscountCents   int64            `json:"max_discount_cents"`
	MinSpendCents      int64            `json:"min_spend_cents"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	Active             bool             `json:"active"`
	ApplicableProducts []uuid.UUID      `json:"applicable_products"`
	ApplicableVariants []VariantRefView `json:"applicable_variants"`
}

// NewVoucherView maps a voucher.
func NewVoucherView(v *domain.Voucher) VoucherView {
	refs := make([]VariantRefView, 0, len(v.ApplicableVariants))
	for _, ref := range v.ApplicableVariants {
		refs = append(refs, VariantRefView{ProductID: ref.ProductID, VariantID: ref.VariantID})
	}
	return VoucherView{
		ID:                 v.ID,
		Name:               v.Name,
		Kind:               string(v.Kind),
		DiscountKind:       string(v.DiscountKind),
		DiscountValue:      v.DiscountValue,
		MaxDiscountCents:   v.MaxDiscountCents,
		MinSpendCents:      v.MinSpendCents,
		StartDate:          v.StartDate,
		EndDate:            v.EndDate,
		Active:             v.Active,
		ApplicableProducts: v.ApplicableProducts,
		ApplicableVariants: refs,
	}
}

// NewVoucherViews maps a voucher list.
func NewVoucherViews(vouchers []domain.Voucher) []VoucherView {
	out := make([]VoucherView, 0, len(vouchers))
	for i := range vouchers {
		out = append(out, NewVoucherView(&vouchers[i]))
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
