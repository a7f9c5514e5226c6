// Package admin implements the back-office JSON endpoints. Every route in
// this package sits behind the admin middleware.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// ProductHandler manages the catalog.
type ProductHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(catalog service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Create handles POST /api/admin/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, handler.NewProductView(product))
}

// Update handles PUT /api/admin/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "admin.products.Update"

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid product id"))
		return
	}

	var req productRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), &domain.Product{
		ID:          productID,
		Name:        req.Name,
		Slug:        req.Slug,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewProductView(product))
}

type variantRequest struct {
	Format       string `json:"format" validate:"required"`
	PriceCents   int64  `json:"price_cents" validate:"min=0"`
	CountInStock int32  `json:"count_in_stock" validate:"min=0"`
	ImageURL     string `json:"image_url"`
}

// AddVariant handles POST /api/admin/products/{id}/variants.
func (h *ProductHandler) AddVariant(w http.ResponseWriter, r *http.Request) {
	const op = "admin.products.AddVariant"

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid product id"))
		return
	}

	var req variantRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	variant, err := h.catalog.AddVariant(r.Context(), &domain.Variant{
		ProductID:    productID,
		Format:       domain.VariantFormat(req.Format),
		PriceCents:   req.PriceCents,
		CountInStock: req.CountInStock,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, variantView(variant))
}

// UpdateVariant handles PUT /api/admin/products/{id}/variants/{variantID}.
func (h *ProductHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	const op = "admin.products.UpdateVariant"

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid product id"))
		return
	}
	variantID, err := uuid.Parse(r.PathValue("variantID"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid variant id"))
		return
	}

	var req variantRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	variant := &domain.Variant{
		ID:           variantID,
		ProductID:    productID,
		Format:       domain.VariantFormat(req.Format),
		PriceCents:   req.PriceCents,
		CountInStock: req.CountInStock,
		ImageURL:     req.ImageURL,
	}
	if err := h.catalog.UpdateVariant(r.Context(), variant); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, variantView(variant))
}

func variantView(v *domain.Variant) handler.VariantView {
	return handler.VariantView{
		ID:           v.ID,
		Format:       string(v.Format),
		PriceCents:   v.PriceCents,
		CountInStock: v.CountInStock,
		ImageURL:     v.ImageURL,
	}
}
