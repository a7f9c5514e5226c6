package email

import (
	"time"
)

// Template is implemented by each email's data struct.
type Template interface {
	Subject() string
	TemplateName() string
}

// OrderItem is a line rendered in order emails.
type OrderItem struct {
	Name       string
	Format     string
	Quantity   int32
	PriceCents int64
}

// OrderConfirmationEmail is sent after a successful checkout.
type OrderConfirmationEmail struct {
	Email         string
	OrderNumber   string
	OrderDate     time.Time
	Items         []OrderItem
	ItemsCents    int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
	PaymentMethod string
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.tmpl"
}

// OrderStatusEmail is sent when an order moves through fulfillment.
type OrderStatusEmail struct {
	Email       string
	OrderNumber string
	Status      string
	ChangedAt   time.Time
}

func (e OrderStatusEmail) Subject() string {
	return "Order " + e.OrderNumber + " Update"
}

func (e OrderStatusEmail) TemplateName() string {
	return "order_status.tmpl"
}

// RefundNoticeEmail is sent when an order is refunded to the wallet.
type RefundNoticeEmail struct {
	Email       string
	OrderNumber string
	AmountCents int64
	RefundedAt  time.Time
}

func (e RefundNoticeEmail) Subject() string {
	return "Refund Issued - " + e.OrderNumber
}

func (e RefundNoticeEmail) TemplateName() string {
	return "refund_notice.tmpl"
}

// LowStockEmail alerts store staff that a variant is nearly sold out.
type LowStockEmail struct {
	Email        string
	ProductName  string
	Format       string
	CountInStock int32
}

func (e LowStockEmail) Subject() string {
	return "Low Stock Alert - " + e.ProductName
}

func (e LowStockEmail) TemplateName() string {
	return "low_stock.tmpl"
}
