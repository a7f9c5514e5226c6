package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hollowaybooks/folio/internal/domain"
)

const productColumns = `id, name, slug, author, description, category, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Author, &p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product without variants.
func (q *Queries) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO products (name, slug, author, description, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		p.Name, p.Slug, p.Author, p.Description, p.Category)
	return scanProduct(row)
}

// UpdateProduct updates mutable product fields.
func (q *Queries) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, slug = $3, author = $4, description = $5, category = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Slug, p.Author, p.Description, p.Category)
	out, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	return out, err
}

// GetProduct returns a product with its variants.
func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, err := scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return q.attachVariants(ctx, p)
}

// GetProductBySlug returns a product with its variants by storefront slug.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := scanProduct(q.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return q.attachVariants(ctx, p)
}

// ListProducts returns products, optionally filtered by category, with
// variants attached. Ordered newest-first.
func (q *Queries) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if category != "" {
		sql += ` WHERE category = $1`
		args = append(args, category)
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		if _, err := q.attachVariants(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (q *Queries) attachVariants(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, product_id, format, price_cents, count_in_stock, image_url
		FROM product_variants WHERE product_id = $1 ORDER BY price_cents`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	p.Variants = p.Variants[:0]
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Format, &v.PriceCents, &v.CountInStock, &v.ImageURL); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		p.Variants = append(p.Variants, v)
	}
	return p, rows.Err()
}

// CreateVariant inserts one variant for a product.
func (q *Queries) CreateVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO product_variants (product_id, format, price_cents, count_in_stock, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, format, price_cents, count_in_stock, image_url`,
		v.ProductID, v.Format, v.PriceCents, v.CountInStock, v.ImageURL)

	var out domain.Variant
	if err := row.Scan(&out.ID, &out.ProductID, &out.Format, &out.PriceCents, &out.CountInStock, &out.ImageURL); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	return &out, nil
}

// UpdateVariant updates price, stock and image of a variant.
func (q *Queries) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE product_variants
		SET format = $2, price_cents = $3, count_in_stock = $4, image_url = $5
		WHERE id = $1`,
		v.ID, v.Format, v.PriceCents, v.CountInStock, v.ImageURL)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVariantNotFound
	}
	return nil
}

// DecrementStock atomically reduces a variant's stock. The guard in the
// WHERE clause makes oversell impossible under concurrency: zero rows
// affected means the stock could not satisfy the quantity.
func (q *Queries) DecrementStock(ctx context.Context, variantID uuid.UUID, qty int32) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE product_variants
		SET count_in_stock = count_in_stock - $2
		WHERE id = $1 AND count_in_stock >= $2`,
		variantID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.InsufficientStock("catalog.decrement_stock", "not enough stock for variant "+variantID.String())
	}
	return nil
}

// RestoreStock adds quantity back to a variant, used when a checkout aborts
// after some lines were already decremented outside a transaction. Inside
// ExecTx the rollback handles it; this exists for compensation paths.
func (q *Queries) RestoreStock(ctx context.Context, variantID uuid.UUID, qty int32) error {
	_, err := q.db.Exec(ctx, `
		UPDATE product_variants SET count_in_stock = count_in_stock + $2 WHERE id = $1`,
		variantID, qty)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

// LowStockVariant is a row of the low-stock report consumed by the sweep job.
type LowStockVariant struct {
	ProductID    uuid.UUID
	VariantID    uuid.UUID
	ProductName  string
	Format       domain.VariantFormat
	CountInStock int32
}

// ListLowStockVariants returns variants at or below the threshold.
func (q *Queries) ListLowStockVariants(ctx context.Context, threshold int32) ([]LowStockVariant, error) {
	rows, err := q.db.Query(ctx, `
		SELECT v.product_id, v.id, p.name, v.format, v.count_in_stock
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.count_in_stock <= $1
		ORDER BY v.count_in_stock ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []LowStockVariant
	for rows.Next() {
		var r LowStockVariant
		if err := rows.Scan(&r.ProductID, &r.VariantID, &r.ProductName, &r.Format, &r.CountInStock); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
