package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
)

// Querier is the full set of database operations. *Queries implements it;
// services depend on the narrow slices they need and tests substitute an
// in-memory fake.
type Querier interface {
	// Products.
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	CreateVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error)
	UpdateVariant(ctx context.Context, v *domain.Variant) error
	DecrementStock(ctx context.Context, variantID uuid.UUID, qty int32) error
	RestoreStock(ctx context.Context, variantID uuid.UUID, qty int32) error
	ListLowStockVariants(ctx context.Context, threshold int32) ([]LowStockVariant, error)

	// Vouchers.
	CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, id uuid.UUID) error
	GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error)
	ListVouchers(ctx context.Context) ([]domain.Voucher, error)
	ListVouchersForVariant(ctx context.Context, productID, variantID uuid.UUID, now time.Time) ([]domain.Voucher, error)

	// Carts.
	GetCartByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error)
	CreateCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error

	// Orders.
	CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error)
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, deliveredAt time.Time) error
	MarkOrderPaid(ctx context.Context, id uuid.UUID, at time.Time) error
	SetCancelRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
	SetCancelHandled(ctx context.Context, id uuid.UUID, at time.Time) error
	SetReturnRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
	SetReturnHandled(ctx context.Context, id uuid.UUID, decision domain.ReturnRequestStatus, refund *domain.RefundResult, at time.Time) error

	// Wallets.
	GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, balanceCents int64, version int32) error
	InsertWalletTransaction(ctx context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error)
	ListWalletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error)

	// Jobs.
	EnqueueJob(ctx context.Context, jobType string, payload []byte, runAt time.Time) (*Job, error)
	ClaimNextJob(ctx context.Context) (*Job, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	FailJob(ctx context.Context, id uuid.UUID, jobErr string, maxAttempts int32, retryDelay time.Duration) error
}

var _ Querier = (*Queries)(nil)
