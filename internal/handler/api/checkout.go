package api

import (
	"log/slog"
	"net/http"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// CheckoutHandler converts the owner's cart into an order.
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a CheckoutHandler.
func NewCheckoutHandler(checkout service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutAddressRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

type checkoutRequest struct {
	Email           string                 `json:"email" validate:"required,email"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	CaptureID       string                 `json:"capture_id"`
	ShippingAddress checkoutAddressRequest `json:"shipping_address" validate:"required"`
}

// Create handles POST /api/checkout.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "api.checkout.Create"

	id, err := domain.RequireIdentity(r.Context(), op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req checkoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), service.CheckoutParams{
		OwnerID:       id.OwnerID,
		Email:         req.Email,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CaptureID:     req.CaptureID,
		ShippingAddress: domain.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
			Phone:      req.ShippingAddress.Phone,
		},
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, handler.NewOrderView(order))
}
