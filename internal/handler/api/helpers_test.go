package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request carrying an authenticated identity, the way
// the identity middleware would have left it.
func authedRequest(t *testing.T, method, target string, body string, ownerID uuid.UUID) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := domain.NewContextWithIdentity(req.Context(), &domain.Identity{
		OwnerID: ownerID,
		Guest:   true,
	})
	return req.WithContext(ctx)
}

// mockCartService implements service.CartService with function fields.
type mockCartService struct {
	GetCartFunc        func(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error)
	AddLineFunc        func(ctx context.Context, ownerID, productID, variantID uuid.UUID, quantity int32) (*domain.Cart, error)
	UpdateQuantityFunc func(ctx context.Context, ownerID, variantID uuid.UUID, quantity int32) (*domain.Cart, error)
	RemoveLineFunc     func(ctx context.Context, ownerID, variantID uuid.UUID) (*domain.Cart, error)
	ClearCartFunc      func(ctx context.Context, ownerID uuid.UUID) error
}

func (m *mockCartService) GetCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	return m.GetCartFunc(ctx, ownerID)
}

func (m *mockCartService) AddLine(ctx context.Context, ownerID, productID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	return m.AddLineFunc(ctx, ownerID, productID, variantID, quantity)
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, ownerID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	return m.UpdateQuantityFunc(ctx, ownerID, variantID, quantity)
}

func (m *mockCartService) RemoveLine(ctx context.Context, ownerID, variantID uuid.UUID) (*domain.Cart, error) {
	return m.RemoveLineFunc(ctx, ownerID, variantID)
}

func (m *mockCartService) ClearCart(ctx context.Context, ownerID uuid.UUID) error {
	return m.ClearCartFunc(ctx, ownerID)
}

// mockCheckoutService implements service.CheckoutService.
type mockCheckoutService struct {
	CheckoutFunc func(ctx context.Context, params service.CheckoutParams) (*domain.Order, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, params service.CheckoutParams) (*domain.Order, error) {
	return m.CheckoutFunc(ctx, params)
}

// mockCatalogService implements service.CatalogService.
type mockCatalogService struct {
	ListProductsFunc     func(ctx context.Context, category string) ([]domain.Product, error)
	GetProductFunc       func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductBySlugFunc func(ctx context.Context, slug string) (*domain.Product, error)
	CreateProductFunc    func(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProductFunc    func(ctx context.Context, p *domain.Product) (*domain.Product, error)
	AddVariantFunc       func(ctx context.Context, v *domain.Variant) (*domain.Variant, error)
	UpdateVariantFunc    func(ctx context.Context, v *domain.Variant) error
	ListLowStockFunc     func(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return m.ListProductsFunc(ctx, category)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *mockCatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return m.GetProductBySlugFunc(ctx, slug)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return m.CreateProductFunc(ctx, p)
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return m.UpdateProductFunc(ctx, p)
}

func (m *mockCatalogService) AddVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error) {
	return m.AddVariantFunc(ctx, v)
}

func (m *mockCatalogService) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	return m.UpdateVariantFunc(ctx, v)
}

func (m *mockCatalogService) ListLowStock(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error) {
	return m.ListLowStockFunc(ctx, threshold)
}

// sampleCart builds a single-line cart for view assertions.
func sampleCart(ownerID uuid.UUID) *domain.Cart {
	return &domain.Cart{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Lines: []domain.CartLine{
			{
				ID:             uuid.New(),
				ProductID:      uuid.New(),
				VariantID:      uuid.New(),
				ProductName:    "The Left Hand of Darkness",
				VariantFormat:  domain.FormatPaperback,
				UnitPriceCents: 1599,
				FinalUnitCents: 1599,
				Quantity:       2,
				SubtotalCents:  3198,
			},
		},
		TotalQuantity:            2,
		TotalBeforeDiscountCents: 3198,
		TotalAfterDiscountCents:  3198,
		CreatedAt:                time.Now(),
		UpdatedAt:                time.Now(),
	}
}
