package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hollowaybooks/folio/internal/domain"
)

const voucherColumns = `id, name, kind, discount_kind, discount_value, max_discount_cents,
	min_spend_cents, start_date, end_date, active, created_at`

func scanVoucher(row pgx.Row) (*domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(&v.ID, &v.Name, &v.Kind, &v.DiscountKind, &v.DiscountValue,
		&v.MaxDiscountCents, &v.MinSpendCents, &v.StartDate, &v.EndDate, &v.Active, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVoucher inserts a voucher and its applicability links.
func (q *Queries) CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO vouchers (name, kind, discount_kind, discount_value, max_discount_cents,
			min_spend_cents, start_date, end_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+voucherColumns,
		v.Name, v.Kind, v.DiscountKind, v.DiscountValue, v.MaxDiscountCents,
		v.MinSpendCents, v.StartDate, v.EndDate, v.Active)
	out, err := scanVoucher(row)
	if err != nil {
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	if err := q.replaceVoucherLinks(ctx, out.ID, v); err != nil {
		return nil, err
	}
	out.ApplicableProducts = v.ApplicableProducts
	out.ApplicableVariants = v.ApplicableVariants
	return out, nil
}

// UpdateVoucher updates a voucher and replaces its applicability links.
func (q *Queries) UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE vouchers
		SET name = $2, kind = $3, discount_kind = $4, discount_value = $5,
			max_discount_cents = $6, min_spend_cents = $7, start_date = $8,
			end_date = $9, active = $10
		WHERE id = $1
		RETURNING `+voucherColumns,
		v.ID, v.Name, v.Kind, v.DiscountKind, v.DiscountValue, v.MaxDiscountCents,
		v.MinSpendCents, v.StartDate, v.EndDate, v.Active)
	out, err := scanVoucher(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update voucher: %w", err)
	}

	if err := q.replaceVoucherLinks(ctx, out.ID, v); err != nil {
		return nil, err
	}
	out.ApplicableProducts = v.ApplicableProducts
	out.ApplicableVariants = v.ApplicableVariants
	return out, nil
}

func (q *Queries) replaceVoucherLinks(ctx context.Context, id uuid.UUID, v *domain.Voucher) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM voucher_products WHERE voucher_id = $1`, id); err != nil {
		return fmt.Errorf("clear voucher products: %w", err)
	}
	if _, err := q.db.Exec(ctx, `DELETE FROM voucher_variants WHERE voucher_id = $1`, id); err != nil {
		return fmt.Errorf("clear voucher variants: %w", err)
	}
	for _, pid := range v.ApplicableProducts {
		if _, err := q.db.Exec(ctx,
			`INSERT INTO voucher_products (voucher_id, product_id) VALUES ($1, $2)`, id, pid); err != nil {
			return fmt.Errorf("link voucher product: %w", err)
		}
	}
	for _, ref := range v.ApplicableVariants {
		if _, err := q.db.Exec(ctx,
			`INSERT INTO voucher_variants (voucher_id, product_id, variant_id) VALUES ($1, $2, $3)`,
			id, ref.ProductID, ref.VariantID); err != nil {
			return fmt.Errorf("link voucher variant: %w", err)
		}
	}
	return nil
}

// DeleteVoucher removes a voucher and its links.
func (q *Queries) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVoucherNotFound
	}
	return nil
}

// GetVoucher returns a voucher with its applicability links.
func (q *Queries) GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	v, err := scanVoucher(q.db.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVoucherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if err := q.attachVoucherLinks(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ListVouchers returns all vouchers, newest-first, with links attached.
func (q *Queries) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	rows, err := q.db.Query(ctx, `SELECT `+voucherColumns+` FROM vouchers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var out []domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := q.attachVoucherLinks(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListVouchersForVariant returns active, in-window discount vouchers linked
// to the product or the exact product+variant pair, ordered by creation time
// ascending so voucher selection is reproducible.
func (q *Queries) ListVouchersForVariant(ctx context.Context, productID, variantID uuid.UUID, now time.Time) ([]domain.Voucher, error) {
	rows, err := q.db.Query(ctx, `
		SELECT DISTINCT `+prefixColumns("v", voucherColumns)+`
		FROM vouchers v
		LEFT JOIN voucher_products vp ON vp.voucher_id = v.id
		LEFT JOIN voucher_variants vv ON vv.voucher_id = v.id
		WHERE v.active
		  AND v.start_date <= $3 AND v.end_date >= $3
		  AND (vp.product_id = $1 OR (vv.product_id = $1 AND vv.variant_id = $2))
		ORDER BY v.created_at ASC`,
		productID, variantID, now)
	if err != nil {
		return nil, fmt.Errorf("list vouchers for variant: %w", err)
	}
	defer rows.Close()

	var out []domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := q.attachVoucherLinks(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (q *Queries) attachVoucherLinks(ctx context.Context, v *domain.Voucher) error {
	rows, err := q.db.Query(ctx, `SELECT product_id FROM voucher_products WHERE voucher_id = $1`, v.ID)
	if err != nil {
		return fmt.Errorf("voucher products: %w", err)
	}
	defer rows.Close()
	v.ApplicableProducts = nil
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return err
		}
		v.ApplicableProducts = append(v.ApplicableProducts, pid)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	vrows, err := q.db.Query(ctx, `SELECT product_id, variant_id FROM voucher_variants WHERE voucher_id = $1`, v.ID)
	if err != nil {
		return fmt.Errorf("voucher variants: %w", err)
	}
	defer vrows.Close()
	v.ApplicableVariants = nil
	for vrows.Next() {
		var ref domain.VariantRef
		if err := vrows.Scan(&ref.ProductID, &ref.VariantID); err != nil {
			return err
		}
		v.ApplicableVariants = append(v.ApplicableVariants, ref)
	}
	return vrows.Err()
}
