package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order domain errors.
var (
	ErrOrderNotFound        = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrNoCancelRequest      = &Error{Code: ESTATE, Message: "Order has no pending cancel request"}
	ErrNoReturnRequest      = &Error{Code: ESTATE, Message: "Order has no pending return request"}
	ErrRequestAlreadyMade   = &Error{Code: ESTATE, Message: "Request already submitted for this order"}
	ErrRequestAlreadyClosed = &Error{Code: ESTATE, Message: "Request already handled"}
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusProcessing      OrderStatus = "processing"
	StatusToShip          OrderStatus = "to_ship"
	StatusShipped         OrderStatus = "shipped"
	StatusDelivered       OrderStatus = "delivered"
	StatusCancelled       OrderStatus = "cancelled"
	StatusRefunded        OrderStatus = "refunded"
	StatusReturnRequested OrderStatus = "return_requested"
	StatusReturnApproved  OrderStatus = "return_approved"
	StatusReturnRejected  OrderStatus = "return_rejected"
)

// Known reports whether the status is a member of the closed set.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusToShip, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded,
		StatusReturnRequested, StatusReturnApproved, StatusReturnRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// String representation (for logging).
func (s OrderStatus) String() string {
	return string(s)
}

// forwardTransitions is the admin-driven fulfillment chain. Each state admits
// exactly one successor; no skipping. Cancel and refund are reachable only
// through the request-handling operations, never through a direct transition.
var forwardTransitions = map[OrderStatus]OrderStatus{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusToShip,
	StatusToShip:     StatusShipped,
	StatusShipped:    StatusDelivered,
}

// CanTransition reports whether the forward transition from -> to is allowed.
func CanTransition(from, to OrderStatus) bool {
	next, ok := forwardTransitions[from]
	return ok && next == to
}

// NextStatus returns the single permitted forward successor of a status.
// ok is false for terminal and side-branch states.
func NextStatus(from OrderStatus) (next OrderStatus, ok bool) {
	next, ok = forwardTransitions[from]
	return next, ok
}

// PaymentMethod is how an order is settled at checkout.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentStripe PaymentMethod = "stripe"
	PaymentWallet PaymentMethod = "wallet"
)

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentPayPal, PaymentStripe, PaymentWallet:
		return true
	}
	return false
}

// Gateway reports whether the method settles through an external payment
// gateway. Gateway captures are verified at checkout and refunded through
// the provider.
func (m PaymentMethod) Gateway() bool {
	return m == PaymentPayPal || m == PaymentStripe
}

// OrderLine is a frozen snapshot of a cart line taken at checkout.
// Prices never change after order creation regardless of later catalog or
// voucher changes.
type OrderLine struct {
	ID                   uuid.UUID
	ProductID            uuid.UUID
	VariantID            uuid.UUID
	Name                 string
	Format               VariantFormat
	ImageURL             string
	OriginalPriceCents   int64
	DiscountedPriceCents int64
	Quantity             int32
	ItemTotalCents       int64
}

// ShippingAddress is the destination recorded on an order.
type ShippingAddress struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// CancelRequest records a user-initiated cancellation request. The workflow
// must acknowledge it (ApproveCancel) before the order status changes.
type CancelRequest struct {
	Requested   bool
	Reason      string
	RequestedAt time.Time
	Handled     bool
	HandledAt   time.Time
}

// ReturnRequestStatus tracks the admin decision on a return request.
type ReturnRequestStatus string

const (
	ReturnPending  ReturnRequestStatus = "pending"
	ReturnApproved ReturnRequestStatus = "approved"
	ReturnRejected ReturnRequestStatus = "rejected"
)

// ReturnRequest records a user-initiated return request on a delivered order.
type ReturnRequest struct {
	Requested   bool
	Reason      string
	RequestedAt time.Time
	Status      ReturnRequestStatus
	HandledAt   time.Time
}

// PaymentResult is the gateway's record of a successful capture.
type PaymentResult struct {
	CaptureID string
	Status    string
	PaidAt    time.Time
}

// RefundResult is the gateway's record of a refund.
type RefundResult struct {
	RefundID    string
	Status      string
	AmountCents int64
}

// Order is an immutable snapshot of a cart plus the mutable workflow fields
// (status, requests, payment/refund results). Orders are never deleted;
// terminal states are soft-terminal.
type Order struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	OwnerEmail      string
	OrderNumber     string
	Lines           []OrderLine
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PaymentResult   *PaymentResult
	ItemsPriceCents int64
	TaxPriceCents   int64
	ShippingCents   int64
	TotalPriceCents int64
	IsPaid          bool
	PaidAt          time.Time
	Status          OrderStatus
	DeliveredAt     time.Time
	CancelRequest   CancelRequest
	ReturnRequest   ReturnRequest
	RefundResult    *RefundResult
	RefundedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanRequestCancel reports whether a cancel request is permitted in the
// order's current state.
func (o *Order) CanRequestCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// CanRequestReturn reports whether a return request is permitted.
func (o *Order) CanRequestReturn() bool {
	return o.Status == StatusDelivered
}
