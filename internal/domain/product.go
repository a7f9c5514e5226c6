package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product domain errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrVariantNotFound = &Error{Code: ENOTFOUND, Message: "Variant not found"}
)

// VariantFormat is the physical format of a book variant.
type VariantFormat string

const (
	FormatHardcover VariantFormat = "hardcover"
	FormatPaperback VariantFormat = "paperback"
	FormatEbook     VariantFormat = "ebook"
)

// Valid reports whether the format is one of the known book formats.
func (f VariantFormat) Valid() bool {
	switch f {
	case FormatHardcover, FormatPaperback, FormatEbook:
		return true
	}
	return false
}

// Variant is a purchasable edition of a product.
// PriceCents is the current catalog price; cart lines snapshot it at add time.
type Variant struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Format       VariantFormat
	PriceCents   int64
	CountInStock int32
	ImageURL     string
}

// Product is a catalog entry with one or more variants.
type Product struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Author      string
	Description string
	Category    string
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant returns the variant with the given ID, or nil if absent.
func (p *Product) Variant(variantID uuid.UUID) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
