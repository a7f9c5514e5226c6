package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
)

// CatalogService provides business logic for products and variants.
type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	AddVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error)
	UpdateVariant(ctx context.Context, v *domain.Variant) error

	// ListLowStock returns variants at or below the stock threshold.
	ListLowStock(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error)
}

type catalogService struct {
	store  Store
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(store Store, logger *slog.Logger) CatalogService {
	return &catalogService{store: store, logger: logger}
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx, category)
	if err != nil {
		return nil, domain.Internal(err, "service.catalog.ListProducts", "failed to list products")
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.store.GetProductBySlug(ctx, slug)
}

func (s *catalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	const op = "service.catalog.CreateProduct"

	if err := validateProduct(op, p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create product")
	}

	s.logger.Info("product created",
		"product_id", created.ID,
		"name", created.Name,
	)
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	const op = "service.catalog.UpdateProduct"

	if err := validateProduct(op, p); err != nil {
		return nil, err
	}
	return s.store.UpdateProduct(ctx, p)
}

func (s *catalogService) AddVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error) {
	const op = "service.catalog.AddVariant"

	if err := validateVariant(op, v); err != nil {
		return nil, err
	}

	// The parent must exist, and must not already carry this format.
	product, err := s.store.GetProduct(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	for _, existing := range product.Variants {
		if existing.Format == v.Format {
			return nil, domain.Conflict(op,
				fmt.Sprintf("product already has a %s variant", v.Format))
		}
	}

	created, err := s.store.CreateVariant(ctx, v)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create variant")
	}
	return created, nil
}

func (s *catalogService) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	const op = "service.catalog.UpdateVariant"

	if err := validateVariant(op, v); err != nil {
		return err
	}
	return s.store.UpdateVariant(ctx, v)
}

func (s *catalogService) ListLowStock(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error) {
	const op = "service.catalog.ListLowStock"

	if threshold < 0 {
		return nil, domain.Invalid(op, "threshold cannot be negative")
	}
	variants, err := s.store.ListLowStockVariants(ctx, threshold)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list low stock variants")
	}
	return variants, nil
}

func validateProduct(op string, p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid(op, "product name is required")
	}
	return nil
}

func validateVariant(op string, v *domain.Variant) error {
	if !v.Format.Valid() {
		return domain.Invalid(op, fmt.Sprintf("unknown variant format: %s", v.Format))
	}
	if v.PriceCents < 0 {
		return domain.Invalid(op, "price cannot be negative")
	}
	if v.CountInStock < 0 {
		return domain.Invalid(op, "stock count cannot be negative")
	}
	return nil
}

// slugify builds a URL slug from a product name.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
