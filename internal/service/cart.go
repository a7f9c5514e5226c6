package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/pricing"
	"github.com/hollowaybooks/folio/internal/repository"
)

// CartService provides business logic for cart operations.
//
// Line prices are snapshotted when a line is added: adding more of the same
// variant, changing quantity, or later voucher edits never reprice an
// existing line. Only removing and re-adding a line picks up current pricing.
type CartService interface {
	// GetCart returns the owner's cart, or an empty cart if none exists yet.
	GetCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error)

	// AddLine adds quantity of a variant to the cart. If the variant is
	// already in the cart the quantities merge and the existing price
	// snapshot is kept.
	AddLine(ctx context.Context, ownerID, productID, variantID uuid.UUID, quantity int32) (*domain.Cart, error)

	// UpdateQuantity replaces the quantity of an existing line.
	UpdateQuantity(ctx context.Context, ownerID, variantID uuid.UUID, quantity int32) (*domain.Cart, error)

	// RemoveLine removes a variant's line. Removing an absent line is a
	// no-op so retried deletes stay safe.
	RemoveLine(ctx context.Context, ownerID, variantID uuid.UUID) (*domain.Cart, error)

	// ClearCart removes every line.
	ClearCart(ctx context.Context, ownerID uuid.UUID) error
}

type cartService struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCartService creates a CartService.
func NewCartService(store Store, logger *slog.Logger) CartService {
	return &cartService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *cartService) GetCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.store.GetCartByOwner(ctx, ownerID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return domain.EmptyCart(ownerID), nil
	}
	if err != nil {
		return nil, domain.Internal(err, "service.cart.GetCart", "failed to load cart")
	}
	return cart, nil
}

func (s *cartService) AddLine(ctx context.Context, ownerID, productID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	const op = "service.cart.AddLine"

	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	variant := product.Variant(variantID)
	if variant == nil {
		return nil, domain.ErrVariantNotFound
	}

	return s.mutate(ctx, ownerID, true, func(q repository.Querier, cart *domain.Cart) error {
		if line := cart.Line(variantID); line != nil {
			line.Quantity += quantity
			return nil
		}

		candidates, err := q.ListVouchersForVariant(ctx, productID, variantID, s.now())
		if err != nil {
			return domain.Internal(err, op, "failed to load vouchers")
		}
		quote := pricing.QuoteLine(variant.PriceCents, quantity, productID, variantID, candidates)

		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:          productID,
			VariantID:          variantID,
			ProductName:        product.Name,
			VariantFormat:      variant.Format,
			ImageURL:           variant.ImageURL,
			UnitPriceCents:     variant.PriceCents,
			DiscountKind:       quote.DiscountKind,
			DiscountValueCents: quote.DiscountCents,
			FinalUnitCents:     quote.FinalUnitCents,
			Quantity:           quantity,
			AppliedVoucherID:   quote.VoucherID,
		})
		return nil
	})
}

func (s *cartService) UpdateQuantity(ctx context.Context, ownerID, variantID uuid.UUID, quantity int32) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	return s.mutate(ctx, ownerID, false, func(q repository.Querier, cart *domain.Cart) error {
		line := cart.Line(variantID)
		if line == nil {
			return domain.ErrCartLineNotFound
		}
		line.Quantity = quantity
		return nil
	})
}

func (s *cartService) RemoveLine(ctx context.Context, ownerID, variantID uuid.UUID) (*domain.Cart, error) {
	return s.mutate(ctx, ownerID, false, func(q repository.Querier, cart *domain.Cart) error {
		for i := range cart.Lines {
			if cart.Lines[i].VariantID == variantID {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
				break
			}
		}
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, ownerID uuid.UUID) error {
	_, err := s.mutate(ctx, ownerID, false, func(q repository.Querier, cart *domain.Cart) error {
		cart.Lines = cart.Lines[:0]
		return nil
	})
	return err
}

// mutate loads the cart, applies fn, recalculates totals, and saves under the
// optimistic version check. A version conflict means another device wrote the
// cart concurrently; the whole mutation re-runs against the fresh cart.
func (s *cartService) mutate(ctx context.Context, ownerID uuid.UUID, createIfMissing bool, fn func(repository.Querier, *domain.Cart) error) (*domain.Cart, error) {
	const op = "service.cart.mutate"

	for attempt := 0; attempt < versionRetries; attempt++ {
		cart, err := s.store.GetCartByOwner(ctx, ownerID)
		if errors.Is(err, domain.ErrCartNotFound) {
			if !createIfMissing {
				// No row to mutate. fn still runs against an empty cart
				// so line lookups report not found; removals and clears
				// are no-ops and nothing is persisted.
				cart = domain.EmptyCart(ownerID)
				if err := fn(s.store, cart); err != nil {
					return nil, err
				}
				return cart, nil
			}
			cart, err = s.store.CreateCart(ctx, ownerID)
		}
		if err != nil {
			return nil, domain.Internal(err, op, "failed to load cart")
		}

		if err := fn(s.store, cart); err != nil {
			return nil, err
		}
		cart.Recalculate()

		err = s.store.SaveCart(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Debug("cart version conflict, retrying",
				"owner_id", ownerID,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			return nil, domain.Internal(err, op, "failed to save cart")
		}
		return cart, nil
	}

	return nil, domain.Conflict(op, "Cart was modified concurrently, please retry")
}
