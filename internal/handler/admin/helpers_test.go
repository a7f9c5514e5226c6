package admin

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockOrderService implements service.OrderService with function fields.
type mockOrderService struct {
	GetOrderFunc          func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderForOwnerFunc  func(ctx context.Context, ownerID, id uuid.UUID) (*domain.Order, error)
	ListOrdersByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error)
	ListOrdersFunc        func(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	AdvanceStatusFunc     func(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error)
	BulkAdvanceFunc       func(ctx context.Context, ids []uuid.UUID, to domain.OrderStatus) []service.BulkResult
	RequestCancelFunc     func(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error)
	ApproveCancelFunc     func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	RequestReturnFunc     func(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error)
	HandleReturnFunc      func(ctx context.Context, id uuid.UUID, approve bool) (*domain.Order, error)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, id)
}

func (m *mockOrderService) GetOrderForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Order, error) {
	return m.GetOrderForOwnerFunc(ctx, ownerID, id)
}

func (m *mockOrderService) ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error) {
	return m.ListOrdersByOwnerFunc(ctx, ownerID)
}

func (m *mockOrderService) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return m.ListOrdersFunc(ctx, status)
}

func (m *mockOrderService) AdvanceStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	return m.AdvanceStatusFunc(ctx, id, to)
}

func (m *mockOrderService) BulkAdvance(ctx context.Context, ids []uuid.UUID, to domain.OrderStatus) []service.BulkResult {
	return m.BulkAdvanceFunc(ctx, ids, to)
}

func (m *mockOrderService) RequestCancel(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error) {
	return m.RequestCancelFunc(ctx, ownerID, id, reason)
}

func (m *mockOrderService) ApproveCancel(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.ApproveCancelFunc(ctx, id)
}

func (m *mockOrderService) RequestReturn(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error) {
	return m.RequestReturnFunc(ctx, ownerID, id, reason)
}

func (m *mockOrderService) HandleReturn(ctx context.Context, id uuid.UUID, approve bool) (*domain.Order, error) {
	return m.HandleReturnFunc(ctx, id, approve)
}

// mockVoucherService implements service.VoucherService with function fields.
type mockVoucherService struct {
	ListVouchersFunc  func(ctx context.Context) ([]domain.Voucher, error)
	GetVoucherFunc    func(ctx context.Context, id uuid.UUID) (*domain.Voucher, error)
	CreateVoucherFunc func(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	UpdateVoucherFunc func(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	DeleteVoucherFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVoucherService) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return m.ListVouchersFunc(ctx)
}

func (m *mockVoucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	return m.GetVoucherFunc(ctx, id)
}

func (m *mockVoucherService) CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	return m.CreateVoucherFunc(ctx, v)
}

func (m *mockVoucherService) UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	return m.UpdateVoucherFunc(ctx, v)
}

func (m *mockVoucherService) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	return m.DeleteVoucherFunc(ctx, id)
}

// mockCatalogService implements service.CatalogService with function fields.
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
