package routes

import (
	"github.com/hollowaybooks/folio/internal/middleware"
	"github.com/hollowaybooks/folio/internal/router"
)

// RegisterAdminRoutes registers the back-office API. Every route requires an
// admin identity.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Catalog management
	admin.Post("/api/admin/products", deps.ProductHandler.Create)
	admin.Put("/api/admin/products/{id}", deps.ProductHandler.Update)
	admin.Post("/api/admin/products/{id}/variants", deps.ProductHandler.AddVariant)
	admin.Put("/api/admin/products/{id}/variants/{variantID}", deps.ProductHandler.UpdateVariant)

	// Order workflow
	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Get("/api/admin/orders/{id}", deps.OrderHandler.Get)
	admin.Post("/api/admin/orders/status", deps.OrderHandler.BulkAdvance)
	admin.Post("/api/admin/orders/{id}/status", deps.OrderHandler.AdvanceStatus)
	admin.Post("/api/admin/orders/{id}/cancel-request/approve", deps.OrderHandler.ApproveCancel)
	admin.Post("/api/admin/orders/{id}/return-request", deps.OrderHandler.HandleReturn)

	// Vouchers
	admin.Get("/api/admin/vouchers", deps.VoucherHandler.List)
	admin.Post("/api/admin/vouchers", deps.VoucherHandler.Create)
	admin.Get("/api/admin/vouchers/{id}", deps.VoucherHandler.Get)
	admin.Put("/api/admin/vouchers/{id}", deps.VoucherHandler.Update)
	admin.Delete("/api/admin/vouchers/{id}", deps.VoucherHandler.Delete)

	// Inventory
	admin.Get("/api/admin/inventory/low-stock", deps.InventoryHandler.LowStock)
}
