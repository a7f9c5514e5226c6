package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/events"
	"github.com/hollowaybooks/folio/internal/payment"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/shipping"
	"github.com/hollowaybooks/folio/internal/tax"
)

// Job types enqueued by checkout and order workflow operations.
const (
	JobOrderConfirmationEmail = "email.order_confirmation"
	JobOrderStatusEmail       = "email.order_status"
	JobRefundNoticeEmail      = "email.refund_notice"
	JobLowStockScan           = "inventory.low_stock_scan"
)

// EmailJobPayload is the payload for order email jobs.
type EmailJobPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	Email   string    `json:"email"`
	Status  string    `json:"status,omitempty"`
}

// CheckoutParams is the input to Checkout.
type CheckoutParams struct {
	OwnerID         uuid.UUID
	Email           string
	PaymentMethod   domain.PaymentMethod
	ShippingAddress domain.ShippingAddress

	// CaptureID is the gateway capture reference the storefront produced.
	// Required for gateway payment methods, ignored otherwise.
	CaptureID string
}

// CheckoutService converts a cart into an order.
//
// The compound step is atomic: stock decrements, the wallet debit (for wallet
// payment), order creation, and clearing the cart commit in one transaction.
// A failure at any point leaves the cart, stock, and wallet untouched.
type CheckoutService interface {
	Checkout(ctx context.Context, params CheckoutParams) (*domain.Order, error)
}

type checkoutService struct {
	store     Store
	rater     shipping.Rater
	taxCalc   tax.Calculator
	provider  payment.Provider
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCheckoutService creates a CheckoutService.
func NewCheckoutService(store Store, rater shipping.Rater, taxCalc tax.Calculator, provider payment.Provider, publisher events.Publisher, logger *slog.Logger) CheckoutService {
	return &checkoutService{
		store:     store,
		rater:     rater,
		taxCalc:   taxCalc,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, params CheckoutParams) (*domain.Order, error) {
	const op = "service.checkout.Checkout"

	if !params.PaymentMethod.Valid() {
		return nil, domain.Invalid(op, fmt.Sprintf("unsupported payment method: %s", params.PaymentMethod))
	}

	cart, err := s.store.GetCartByOwner(ctx, params.OwnerID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, domain.ErrEmptyCart
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load cart")
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	cart.Recalculate()

	freeShipping, err := s.cartHasFreeShipping(ctx, cart)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to check shipping vouchers")
	}

	rate, err := s.rater.Rate(ctx, shipping.RateParams{
		ItemsCents:    cart.TotalAfterDiscountCents,
		TotalQuantity: cart.TotalQuantity,
		Country:       params.ShippingAddress.Country,
		PostalCode:    params.ShippingAddress.PostalCode,
		FreeShipping:  freeShipping,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to rate shipping")
	}

	taxResult, err := s.taxCalc.CalculateTax(ctx, tax.TaxParams{
		Country:       params.ShippingAddress.Country,
		State:         params.ShippingAddress.State,
		PostalCode:    params.ShippingAddress.PostalCode,
		ItemsCents:    cart.TotalAfterDiscountCents,
		ShippingCents: rate.CostCents,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to calculate tax")
	}

	order := s.buildOrder(cart, params, rate.CostCents, taxResult.TotalTaxCents)

	// Gateway verification happens before the transaction: a failed or
	// short capture must not touch stock, the cart, or the wallet.
	if params.PaymentMethod.Gateway() {
		capture, err := s.provider.VerifyCapture(ctx, payment.VerifyParams{
			CaptureID:           params.CaptureID,
			ExpectedAmountCents: order.TotalPriceCents,
		})
		if err != nil {
			return nil, domain.Gateway(err, op, "Payment could not be verified")
		}
		order.IsPaid = true
		order.PaidAt = capture.PaidAt
		order.Status = domain.StatusProcessing
		order.PaymentResult = &domain.PaymentResult{
			CaptureID: capture.CaptureID,
			Status:    capture.Status,
			PaidAt:    capture.PaidAt,
		}
	}

	var created *domain.Order
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		for _, line := range order.Lines {
			if err := q.DecrementStock(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}
		}

		if params.PaymentMethod == domain.PaymentWallet {
			if err := debitWallet(ctx, q, params.OwnerID, order.TotalPriceCents,
				"Payment for order "+order.OrderNumber); err != nil {
				return err
			}
		}

		created, err = q.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		cart.Lines = cart.Lines[:0]
		cart.Recalculate()
		return q.SaveCart(ctx, cart)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, domain.Conflict(op, "Cart was modified during checkout, please retry")
		}
		if domain.ErrorCode(err) != domain.EINTERNAL {
			return nil, err
		}
		return nil, domain.Internal(err, op, "checkout failed")
	}

	s.afterCheckout(ctx, created, params.Email)
	return created, nil
}

// buildOrder freezes the cart into an order snapshot with totals.
func (s *checkoutService) buildOrder(cart *domain.Cart, params CheckoutParams, shippingCents, taxCents int64) *domain.Order {
	now := s.now()

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:            cl.ProductID,
			VariantID:            cl.VariantID,
			Name:                 cl.ProductName,
			Format:               cl.VariantFormat,
			ImageURL:             cl.ImageURL,
			OriginalPriceCents:   cl.UnitPriceCents,
			DiscountedPriceCents: cl.FinalUnitCents,
			Quantity:             cl.Quantity,
			ItemTotalCents:       cl.SubtotalCents,
		})
	}

	order := &domain.Order{
		OwnerID:         params.OwnerID,
		OwnerEmail:      params.Email,
		OrderNumber:     newOrderNumber(),
		Lines:           lines,
		ShippingAddress: params.ShippingAddress,
		PaymentMethod:   params.PaymentMethod,
		ItemsPriceCents: cart.TotalAfterDiscountCents,
		TaxPriceCents:   taxCents,
		ShippingCents:   shippingCents,
		TotalPriceCents: cart.TotalAfterDiscountCents + taxCents + shippingCents,
		Status:          domain.StatusPending,
	}

	// Paid orders skip pending and enter fulfillment immediately. Only
	// cash on delivery waits in pending until an admin confirms it.
	if params.PaymentMethod == domain.PaymentWallet {
		order.IsPaid = true
		order.PaidAt = now
		order.Status = domain.StatusProcessing
	}
	return order
}

// cartHasFreeShipping reports whether an active free-shipping voucher covers
// any line in the cart. Minimum spend is measured against the discounted
// cart total.
func (s *checkoutService) cartHasFreeShipping(ctx context.Context, cart *domain.Cart) (bool, error) {
	now := s.now()
	for _, line := range cart.Lines {
		vouchers, err := s.store.ListVouchersForVariant(ctx, line.ProductID, line.VariantID, now)
		if err != nil {
			return false, err
		}
		for _, v := range vouchers {
			if v.Kind == domain.VoucherFreeShipping && v.MeetsMinSpend(cart.TotalAfterDiscountCents) {
				return true, nil
			}
		}
	}
	return false, nil
}

// afterCheckout publishes the placed event and queues notification work.
// These are best-effort: the order is already committed.
func (s *checkoutService) afterCheckout(ctx context.Context, order *domain.Order, email string) {
	if err := s.publisher.Publish(ctx, events.SubjectOrderPlaced, events.OrderPlaced{
		OrderID:         order.ID,
		OwnerID:         order.OwnerID,
		OrderNumber:     order.OrderNumber,
		PaymentMethod:   string(order.PaymentMethod),
		TotalPriceCents: order.TotalPriceCents,
		PlacedAt:        order.CreatedAt,
	}); err != nil {
		s.logger.Error("failed to publish order placed event",
			"order_id", order.ID,
			"error", err,
		)
	}

	payload, _ := json.Marshal(EmailJobPayload{OrderID: order.ID, Email: email})
	if _, err := s.store.EnqueueJob(ctx, JobOrderConfirmationEmail, payload, s.now()); err != nil {
		s.logger.Error("failed to enqueue confirmation email",
			"order_id", order.ID,
			"error", err,
		)
	}
	if _, err := s.store.EnqueueJob(ctx, JobLowStockScan, []byte("{}"), s.now()); err != nil {
		s.logger.Error("failed to enqueue low stock scan",
			"order_id", order.ID,
			"error", err,
		)
	}
}

// newOrderNumber generates a human-readable order reference.
func newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "FOL-" + id[:10]
}
