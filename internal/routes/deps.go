// Package routes wires handlers onto the router. Registration is split by
// surface: the storefront API and the admin back office.
package routes

import (
	"github.com/hollowaybooks/folio/internal/handler/admin"
	"github.com/hollowaybooks/folio/internal/handler/api"
)

// APIDeps contains dependencies for storefront API routes.
type APIDeps struct {
	SessionHandler  *api.SessionHandler
	ProductHandler  *api.ProductHandler
	CartHandler     *api.CartHandler
	CheckoutHandler *api.CheckoutHandler
	OrderHandler    *api.OrderHandler
	WalletHandler   *api.WalletHandler
}

// AdminDeps contains dependencies for admin routes.
type AdminDeps struct {
	ProductHandler   *admin.ProductHandler
	OrderHandler     *admin.OrderHandler
	VoucherHandler   *admin.VoucherHandler
	InventoryHandler *admin.InventoryHandler
}
