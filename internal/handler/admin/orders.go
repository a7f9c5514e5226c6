package admin

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// OrderHandler drives the fulfillment workflow.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// List handles GET /api/admin/orders. An optional ?status= query filters by
// workflow state.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.orders.ListOrders(r.Context(), status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderViews(orders))
}

// Get handles GET /api/admin/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "admin.orders.Get"

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type advanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdvanceStatus handles POST /api/admin/orders/{id}/status.
func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	const op = "admin.orders.AdvanceStatus"

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	var req advanceStatusRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.AdvanceStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type bulkAdvanceRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" validate:"required,min=1"`
	Status   string      `json:"status" validate:"required"`
}

type bulkAdvanceResult struct {
	OrderID uuid.UUID `json:"order_id"`
	Error   string    `json:"error,omitempty"`
}

// BulkAdvance handles POST /api/admin/orders/status. Each order is advanced
// independently; failures are reported per order alongside the successes.
func (h *OrderHandler) BulkAdvance(w http.ResponseWriter, r *http.Request) {
	var req bulkAdvanceRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	results := h.orders.BulkAdvance(r.Context(), req.OrderIDs, domain.OrderStatus(req.Status))

	out := make([]bulkAdvanceResult, 0, len(results))
	for _, res := range results {
		item := bulkAdvanceResult{OrderID: res.OrderID}
		if res.Err != nil {
			item.Error = domain.ErrorMessage(res.Err)
		}
		out = append(out, item)
	}
	handler.RespondJSON(w, http.StatusOK, out)
}

// ApproveCancel handles POST /api/admin/orders/{id}/cancel-request/approve.
func (h *OrderHandler) ApproveCancel(w http.ResponseWriter, r *http.Request) {
	const op = "admin.orders.ApproveCancel"

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	order, err := h.orders.ApproveCancel(r.Context(), orderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}

type handleReturnRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

// HandleReturn handles POST /api/admin/orders/{id}/return-request.
func (h *OrderHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	const op = "admin.orders.HandleReturn"

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid order id"))
		return
	}

	var req handleReturnRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.HandleReturn(r.Context(), orderID, *req.Approve)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewOrderView(order))
}
