package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// OrderHandler serves the owner's order history and mid-fulfillment requests.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.orders.List")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orders, err := h.orders.ListOrdersByOwner(r.Context(), id.OwnerID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderViews(orders))
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.Get"

	id, err := domain.RequireIdentity(r.Context(), op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	order, err := h.orders.GetOrderForOwner(r.Context(), id.OwnerID, orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type orderRequestBody struct {
	Reason string `json:"reason" validate:"required"`
}

// RequestCancel handles POST /api/orders/{id}/cancel-request.
func (h *OrderHandler) RequestCancel(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.RequestCancel"

	id, err := domain.RequireIdentity(r.Context(), op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	var req orderRequestBody
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.RequestCancel(r.Context(), id.OwnerID, orderID, req.Reason)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

// RequestReturn handles POST /api/orders/{id}/return-request.
func (h *OrderHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	const op = "api.orders.RequestReturn"

	id, err := domain.RequireIdentity(r.Context(), op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	var req orderRequestBody
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.RequestReturn(r.Context(), id.OwnerID, orderID, req.Reason)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}
