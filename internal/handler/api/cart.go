package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// CartHandler serves the authenticated owner's cart.
type CartHandler struct {
	carts  service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(carts service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.cart.Get")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.GetCart(r.Context(), id.OwnerID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewCartView(cart))
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,min=1"`
}

// AddLine handles POST /api/cart/items.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.cart.AddLine")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req addLineRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.AddLine(r.Context(), id.OwnerID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewCartView(cart))
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity" validate:"required,min=1"`
}

// UpdateLine handles PUT /api/cart/items/{variantID}.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.cart.UpdateLine")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	variantID, err := uuid.Parse(r.PathValue("variantID"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("api.cart.UpdateLine", "invalid variant id"))
		return
	}

	var req updateQuantityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), id.OwnerID, variantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewCartView(cart))
}

// RemoveLine handles DELETE /api/cart/items/{variantID}.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.cart.RemoveLine")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	variantID, err := uuid.Parse(r.PathValue("variantID"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("api.cart.RemoveLine", "invalid variant id"))
		return
	}

	cart, err := h.carts.RemoveLine(r.Context(), id.OwnerID, variantID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewCartView(cart))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.cart.Clear")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.carts.ClearCart(r.Context(), id.OwnerID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
