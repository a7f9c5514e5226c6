package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subjects for published events. Consumers subscribe with folio.orders.* etc.
const (
	SubjectOrderPlaced        = "folio.orders.placed"
	SubjectOrderStatusChanged = "folio.orders.status_changed"
	SubjectOrderRefunded      = "folio.orders.refunded"
	SubjectStockLow           = "folio.inventory.stock_low"
)

// OrderPlaced is published after a successful checkout.
type OrderPlaced struct {
	OrderID         uuid.UUID `json:"order_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	OrderNumber     string    `json:"order_number"`
	PaymentMethod   string    `json:"payment_method"`
	TotalPriceCents int64     `json:"total_price_cents"`
	PlacedAt        time.Time `json:"placed_at"`
}

// OrderStatusChanged is published on every workflow transition.
type OrderStatusChanged struct {
	OrderID   uuid.UUID `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// OrderRefunded is published when a refund settles.
type OrderRefunded struct {
	OrderID     uuid.UUID `json:"order_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	AmountCents int64     `json:"amount_cents"`
	RefundedAt  time.Time `json:"refunded_at"`
}

// StockLow is published when a variant drops below the alert threshold.
type StockLow struct {
	ProductID    uuid.UUID `json:"product_id"`
	VariantID    uuid.UUID `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	Format       string    `json:"format"`
	CountInStock int32     `json:"count_in_stock"`
}

// Publisher publishes domain events for out-of-process consumers.
// Implementations: NATSPublisher, NoopPublisher.
type Publisher interface {
	// Publish sends the payload, JSON-encoded, on the subject. Publishing is
	// best-effort; callers log failures but do not roll back.
	Publish(ctx context.Context, subject string, payload any) error

	// Close flushes and releases the connection.
	Close()
}
