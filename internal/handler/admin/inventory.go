package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

const defaultLowStockThreshold = 5

// InventoryHandler surfaces stock levels to the back office.
type InventoryHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(catalog service.CatalogService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, logger: logger}
}

type lowStockView struct {
	ProductID    uuid.UUID `json:"product_id"`
	VariantID    uuid.UUID `json:"variant_id"`
	ProductName  string    `json:"product_name"`
	Format       string    `json:"format"`
	CountInStock int32     `json:"count_in_stock"`
}

// LowStock handles GET /api/admin/inventory/low-stock. An optional ?threshold=
// query overrides the default.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	const op = "admin.inventory.LowStock"

	threshold := int32(defaultLowStockThreshold)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			handler.ErrorResponse(w, r, domain.Invalid(op, "threshold must be an integer"))
			return
		}
		threshold = int32(parsed)
	}

	variants, err := h.catalog.ListLowStock(r.Context(), threshold)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	out := make([]lowStockView, 0, len(variants))
	for _, v := range variants {
		out = append(out, lowStockView{
			ProductID:    v.ProductID,
			VariantID:    v.VariantID,
			ProductName:  v.ProductName,
			Format:       string(v.Format),
			CountInStock: v.CountInStock,
		})
	}
	handler.RespondJSON(w, http.StatusOK, out)
}
