package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
)

func activeVoucher(kind domain.DiscountKind, value int64, productIDs ...uuid.UUID) domain.Voucher {
	return domain.Voucher{
		ID:                 uuid.New(),
		Name:               "test voucher",
		Kind:               domain.VoucherDiscount,
		DiscountKind:       kind,
		DiscountValue:      value,
		StartDate:          time.Now().Add(-time.Hour),
		EndDate:            time.Now().Add(time.Hour),
		Active:             true,
		ApplicableProducts: productIDs,
		CreatedAt:          time.Now(),
	}
}

func Test_CartService_AddLine_SnapshotsDiscountedPrice(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)
	store.vouchers = append(store.vouchers, activeVoucher(domain.DiscountPercentage, 10, product.ID))

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	cart, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	line := cart.Lines[0]
	assert.Equal(t, int64(2000), line.UnitPriceCents, "original price is kept on the line")
	assert.Equal(t, int64(1800), line.FinalUnitCents, "10% off 2000 = 1800")
	assert.Equal(t, int64(3600), line.SubtotalCents, "1800 * 2")
	assert.Equal(t, int32(2), cart.TotalQuantity)
	assert.Equal(t, int64(4000), cart.TotalBeforeDiscountCents)
	assert.Equal(t, int64(400), cart.TotalDiscountCents)
	assert.Equal(t, int64(3600), cart.TotalAfterDiscountCents)
}

func Test_CartService_AddLine_MergeKeepsFrozenPrice(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	_, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 1)
	require.NoError(t, err)

	// Price rises and a voucher appears after the line was added. Neither
	// may touch the existing snapshot.
	store.products[product.ID].Variants[0].PriceCents = 9999
	store.vouchers = append(store.vouchers, activeVoucher(domain.DiscountPercentage, 50, product.ID))

	cart, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1, "same variant merges into one line")
	assert.Equal(t, int32(3), cart.Lines[0].Quantity)
	assert.Equal(t, int64(2000), cart.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(2000), cart.Lines[0].FinalUnitCents)
	assert.Equal(t, int64(6000), cart.TotalAfterDiscountCents)
}

func Test_CartService_AddLine_Validation(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	tests := []struct {
		name         string
		productID    uuid.UUID
		variantID    uuid.UUID
		quantity     int32
		expectedCode string
	}{
		{"zero quantity", product.ID, variant.ID, 0, domain.EINVALID},
		{"negative quantity", product.ID, variant.ID, -1, domain.EINVALID},
		{"unknown product", uuid.New(), variant.ID, 1, domain.ENOTFOUND},
		{"variant from another product", product.ID, uuid.New(), 1, domain.ENOTFOUND},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddLine(context.Background(), ownerID, tt.productID, tt.variantID, tt.quantity)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, domain.ErrorCode(err))
		})
	}
}

func Test_CartService_UpdateQuantity(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	_, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 1)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(context.Background(), ownerID, variant.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(5), cart.Lines[0].Quantity)
	assert.Equal(t, int64(10000), cart.TotalAfterDiscountCents)

	_, err = svc.UpdateQuantity(context.Background(), ownerID, variant.ID, 0)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.UpdateQuantity(context.Background(), ownerID, uuid.New(), 2)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "unknown line")
}

func Test_CartService_UpdateQuantity_NoCart(t *testing.T) {
	store := newFakeStore()
	_, variant := store.addProduct("Dune", 2000, 10)

	svc := NewCartService(store, testLogger())

	// Owner has never added anything, so there is no cart row and no line.
	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), variant.ID, 2)
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	assert.Empty(t, store.carts, "no cart created as a side effect")
}

func Test_CartService_RemoveLine_Idempotent(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	_, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveLine(context.Background(), ownerID, variant.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.TotalAfterDiscountCents)

	// Removing again succeeds without error.
	cart, err = svc.RemoveLine(context.Background(), ownerID, variant.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func Test_CartService_GetCart_EmptyForNewOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	cart, err := svc.GetCart(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, cart.OwnerID)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.TotalAfterDiscountCents)
}

func Test_CartService_VersionConflict_RetriesThenSucceeds(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)
	store.saveCartErr = repository.ErrVersionConflict
	store.saveCartFailures = 2

	svc := NewCartService(store, testLogger())
	ownerID := uuid.New()

	cart, err := svc.AddLine(context.Background(), ownerID, product.ID, variant.ID, 1)
	require.NoError(t, err, "conflicts within the retry budget succeed")
	assert.Len(t, cart.Lines, 1)
}

func Test_CartService_VersionConflict_ExhaustedIsConflict(t *testing.T) {
	store := newFakeStore()
	product, variant := store.addProduct("Dune", 2000, 10)
	store.saveCartErr = repository.ErrVersionConflict
	store.saveCartFailures = versionRetries

	svc := NewCartService(store, testLogger())

	_, err := svc.AddLine(context.Background(), uuid.New(), product.ID, variant.ID, 1)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}
