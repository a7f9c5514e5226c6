package routes

import (
	"github.com/hollowaybooks/folio/internal/middleware"
	"github.com/hollowaybooks/folio/internal/router"
)

// RegisterAPIRoutes registers the storefront API. The catalog and guest
// session endpoints are public; everything else needs a bearer token.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Public
	r.Post("/api/session/guest", deps.SessionHandler.CreateGuest)
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/{slug}", deps.ProductHandler.GetBySlug)

	authed := r.Group(middleware.RequireAuth)

	// Cart
	authed.Get("/api/cart", deps.CartHandler.Get)
	authed.Delete("/api/cart", deps.CartHandler.Clear)
	authed.Post("/api/cart/items", deps.CartHandler.AddLine)
	authed.Put("/api/cart/items/{variantID}", deps.CartHandler.UpdateLine)
	authed.Delete("/api/cart/items/{variantID}", deps.CartHandler.RemoveLine)

	// Checkout
	authed.Post("/api/checkout", deps.CheckoutHandler.Create)

	// Orders
	authed.Get("/api/orders", deps.OrderHandler.List)
	authed.Get("/api/orders/{id}", deps.OrderHandler.Get)
	authed.Post("/api/orders/{id}/cancel-request", deps.OrderHandler.RequestCancel)
	authed.Post("/api/orders/{id}/return-request", deps.OrderHandler.RequestReturn)

	// Wallet
	authed.Get("/api/wallet", deps.WalletHandler.Get)
	authed.Get("/api/wallet/transactions", deps.WalletHandler.ListTransactions)
}
