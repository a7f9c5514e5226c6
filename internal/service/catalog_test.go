package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowaybooks/folio/internal/domain"
)

func Test_CatalogService_CreateProduct_Slug(t *testing.T) {
	store := newFakeStore()
	svc := NewCatalogService(store, testLogger())

	tests := []struct {
		name     string
		product  string
		wantSlug string
	}{
		{"simple title", "Dune", "dune"},
		{"spaces and punctuation", "The Left Hand of Darkness!", "the-left-hand-of-darkness"},
		{"numbers kept", "Fahrenheit 451", "fahrenheit-451"},
		{"collapsed separators", "A  --  Title", "a-title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.CreateProduct(context.Background(), &domain.Product{Name: tt.product})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, created.Slug)
		})
	}

	t.Run("explicit slug wins", func(t *testing.T) {
		created, err := svc.CreateProduct(context.Background(), &domain.Product{
			Name: "Dune Messiah",
			Slug: "dune-2",
		})
		require.NoError(t, err)
		assert.Equal(t, "dune-2", created.Slug)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "   "})
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func Test_CatalogService_AddVariant(t *testing.T) {
	store := newFakeStore()
	svc := NewCatalogService(store, testLogger())
	product, _ := store.addProduct("Dune", 2000, 10)

	t.Run("new format accepted", func(t *testing.T) {
		created, err := svc.AddVariant(context.Background(), &domain.Variant{
			ProductID:    product.ID,
			Format:       domain.FormatHardcover,
			PriceCents:   3500,
			CountInStock: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.FormatHardcover, created.Format)
	})

	t.Run("duplicate format rejected", func(t *testing.T) {
		_, err := svc.AddVariant(context.Background(), &domain.Variant{
			ProductID:  product.ID,
			Format:     domain.FormatPaperback,
			PriceCents: 1500,
		})
		require.Error(t, err)
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, err := svc.AddVariant(context.Background(), &domain.Variant{
			ProductID: product.ID,
			Format:    domain.VariantFormat("vinyl"),
		})
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := svc.AddVariant(context.Background(), &domain.Variant{
			ProductID:  product.ID,
			Format:     domain.FormatEbook,
			PriceCents: -1,
		})
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("missing product", func(t *testing.T) {
		other, _ := store.addProduct("Gone", 1000, 1)
		delete(store.products, other.ID)
		_, err := svc.AddVariant(context.Background(), &domain.Variant{
			ProductID:  other.ID,
			Format:     domain.FormatEbook,
			PriceCents: 900,
		})
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})
}
