package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hollowaybooks/folio/internal/domain"
)

// ErrVersionConflict signals a concurrent writer won the version check.
// Callers re-read and retry; the service surfaces domain.Conflict after
// bounded retries.
var ErrVersionConflict = errors.New("version conflict")

// GetCartByOwner returns the owner's cart with lines ordered newest-first.
// Returns domain.ErrCartNotFound when no cart row exists yet.
func (q *Queries) GetCartByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	var c domain.Cart
	err := q.db.QueryRow(ctx, `
		SELECT id, owner_id, total_quantity, total_before_cents, total_discount_cents,
			total_after_cents, version, created_at, updated_at
		FROM carts WHERE owner_id = $1`, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.TotalQuantity, &c.TotalBeforeDiscountCents,
			&c.TotalDiscountCents, &c.TotalAfterDiscountCents, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := q.db.Query(ctx, `
		SELECT id, product_id, variant_id, product_name, variant_format, image_url,
			unit_price_cents, discount_kind, discount_value_cents, final_unit_cents,
			quantity, subtotal_cents, applied_voucher_id, created_at
		FROM cart_lines WHERE cart_id = $1
		ORDER BY created_at DESC, id DESC`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	defer rows.Close()

	c.Lines = []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		var voucherID *uuid.UUID
		if err := rows.Scan(&line.ID, &line.ProductID, &line.VariantID, &line.ProductName,
			&line.VariantFormat, &line.ImageURL, &line.UnitPriceCents, &line.DiscountKind,
			&line.DiscountValueCents, &line.FinalUnitCents, &line.Quantity, &line.SubtotalCents,
			&voucherID, &line.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		line.AppliedVoucherID = uuidValue(voucherID)
		c.Lines = append(c.Lines, line)
	}
	return &c, rows.Err()
}

// CreateCart inserts an empty cart for the owner. Carts are created lazily
// on first add and never hard-deleted afterwards.
func (q *Queries) CreateCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	var c domain.Cart
	err := q.db.QueryRow(ctx, `
		INSERT INTO carts (owner_id) VALUES ($1)
		RETURNING id, owner_id, total_quantity, total_before_cents, total_discount_cents,
			total_after_cents, version, created_at, updated_at`, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.TotalQuantity, &c.TotalBeforeDiscountCents,
			&c.TotalDiscountCents, &c.TotalAfterDiscountCents, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	c.Lines = []domain.CartLine{}
	return &c, nil
}

// SaveCart persists the whole cart aggregate: totals are written with a
// check-and-increment on version, and the line set is replaced to match the
// in-memory aggregate. Returns ErrVersionConflict when another writer got
// there first. Must run inside a transaction (Store.SaveCart wraps this).
func (q *Queries) SaveCart(ctx context.Context, cart *domain.Cart) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE carts
		SET total_quantity = $2, total_before_cents = $3, total_discount_cents = $4,
			total_after_cents = $5, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $6`,
		cart.ID, cart.TotalQuantity, cart.TotalBeforeDiscountCents,
		cart.TotalDiscountCents, cart.TotalAfterDiscountCents, cart.Version)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}

	if _, err := q.db.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("clear cart lines: %w", err)
	}
	for i := range cart.Lines {
		line := &cart.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		if line.CreatedAt.IsZero() {
			// Leave the column default to stamp insertion time.
			if _, err := q.db.Exec(ctx, `
				INSERT INTO cart_lines (id, cart_id, product_id, variant_id, product_name,
					variant_format, image_url, unit_price_cents, discount_kind,
					discount_value_cents, final_unit_cents, quantity, subtotal_cents, applied_voucher_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
				line.ID, cart.ID, line.ProductID, line.VariantID, line.ProductName,
				line.VariantFormat, line.ImageURL, line.UnitPriceCents, line.DiscountKind,
				line.DiscountValueCents, line.FinalUnitCents, line.Quantity, line.SubtotalCents,
				nullUUID(line.AppliedVoucherID)); err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
			continue
		}
		if _, err := q.db.Exec(ctx, `
			INSERT INTO cart_lines (id, cart_id, product_id, variant_id, product_name,
				variant_format, image_url, unit_price_cents, discount_kind,
				discount_value_cents, final_unit_cents, quantity, subtotal_cents,
				applied_voucher_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			line.ID, cart.ID, line.ProductID, line.VariantID, line.ProductName,
			line.VariantFormat, line.ImageURL, line.UnitPriceCents, line.DiscountKind,
			line.DiscountValueCents, line.FinalUnitCents, line.Quantity, line.SubtotalCents,
			nullUUID(line.AppliedVoucherID), line.CreatedAt); err != nil {
			return fmt.Errorf("insert cart line: %w", err)
		}
	}

	cart.Version++
	return nil
}
