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

const orderColumns = `id, owner_id, owner_email, order_number, payment_method, capture_id, capture_status,
	items_price_cents, tax_price_cents, shipping_cents, total_price_cents, is_paid, paid_at,
	status, delivered_at,
	ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code,
	ship_country, ship_phone,
	cancel_requested, cancel_reason, cancel_requested_at, cancel_handled, cancel_handled_at,
	return_requested, return_reason, return_requested_at, return_status, return_handled_at,
	refund_id, refund_status, refund_amount_cents, refunded_at,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                 domain.Order
		paidAt            *time.Time
		deliveredAt       *time.Time
		cancelRequestedAt *time.Time
		cancelHandledAt   *time.Time
		returnRequestedAt *time.Time
		returnHandledAt   *time.Time
		refundedAt        *time.Time
		captureID         string
		captureStatus     string
		returnStatus      string
		refundID          string
		refundStatus      string
		refundAmount      int64
	)

	err := row.Scan(&o.ID, &o.OwnerID, &o.OwnerEmail, &o.OrderNumber, &o.PaymentMethod, &captureID, &captureStatus,
		&o.ItemsPriceCents, &o.TaxPriceCents, &o.ShippingCents, &o.TotalPriceCents, &o.IsPaid, &paidAt,
		&o.Status, &deliveredAt,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.CancelRequest.Requested, &o.CancelRequest.Reason, &cancelRequestedAt,
		&o.CancelRequest.Handled, &cancelHandledAt,
		&o.ReturnRequest.Requested, &o.ReturnRequest.Reason, &returnRequestedAt,
		&returnStatus, &returnHandledAt,
		&refundID, &refundStatus, &refundAmount, &refundedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.PaidAt = timeValue(paidAt)
	o.DeliveredAt = timeValue(deliveredAt)
	o.CancelRequest.RequestedAt = timeValue(cancelRequestedAt)
	o.CancelRequest.HandledAt = timeValue(cancelHandledAt)
	o.ReturnRequest.RequestedAt = timeValue(returnRequestedAt)
	o.ReturnRequest.Status = domain.ReturnRequestStatus(returnStatus)
	o.ReturnRequest.HandledAt = timeValue(returnHandledAt)
	o.RefundedAt = timeValue(refundedAt)

	if captureID != "" {
		o.PaymentResult = &domain.PaymentResult{CaptureID: captureID, Status: captureStatus, PaidAt: o.PaidAt}
	}
	if refundID != "" || refundStatus != "" {
		o.RefundResult = &domain.RefundResult{RefundID: refundID, Status: refundStatus, AmountCents: refundAmount}
	}
	return &o, nil
}

// CreateOrder inserts an order snapshot with its lines. Orders are created
// once at checkout and never deleted.
func (q *Queries) CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	var captureID, captureStatus string
	if o.PaymentResult != nil {
		captureID = o.PaymentResult.CaptureID
		captureStatus = o.PaymentResult.Status
	}

	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (owner_id, owner_email, order_number, payment_method, capture_id, capture_status,
			items_price_cents, tax_price_cents, shipping_cents, total_price_cents, is_paid, paid_at,
			status, ship_full_name, ship_line1, ship_line2, ship_city, ship_state,
			ship_postal_code, ship_country, ship_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING `+orderColumns,
		o.OwnerID, o.OwnerEmail, o.OrderNumber, o.PaymentMethod, captureID, captureStatus,
		o.ItemsPriceCents, o.TaxPriceCents, o.ShippingCents, o.TotalPriceCents,
		o.IsPaid, nullTime(o.PaidAt), o.Status,
		o.ShippingAddress.FullName, o.ShippingAddress.Line1, o.ShippingAddress.Line2,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.ShippingAddress.Phone)

	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		err := q.db.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, product_id, variant_id, name, format, image_url,
				original_price_cents, discounted_price_cents, quantity, item_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			created.ID, line.ProductID, line.VariantID, line.Name, line.Format, line.ImageURL,
			line.OriginalPriceCents, line.DiscountedPriceCents, line.Quantity, line.ItemTotalCents).
			Scan(&line.ID)
		if err != nil {
			return nil, fmt.Errorf("create order line: %w", err)
		}
	}
	created.Lines = o.Lines
	return created, nil
}

// GetOrder returns an order with its line snapshots.
func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return q.getOrder(ctx, id, false)
}

// GetOrderForUpdate locks the order row for the duration of the surrounding
// transaction. Workflow transitions use this so two admins cannot race the
// same order through conflicting states.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return q.getOrder(ctx, id, true)
}

func (q *Queries) getOrder(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	o, err := scanOrder(q.db.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := q.attachOrderLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (q *Queries) attachOrderLines(ctx context.Context, o *domain.Order) error {
	rows, err := q.db.Query(ctx, `
		SELECT id, product_id, variant_id, name, format, image_url,
			original_price_cents, discounted_price_cents, quantity, item_total_cents
		FROM order_lines WHERE order_id = $1`, o.ID)
	if err != nil {
		return fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	o.Lines = o.Lines[:0]
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.VariantID, &line.Name, &line.Format,
			&line.ImageURL, &line.OriginalPriceCents, &line.DiscountedPriceCents,
			&line.Quantity, &line.ItemTotalCents); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, line)
	}
	return rows.Err()
}

// ListOrdersByOwner returns the owner's orders newest-first, lines attached.
func (q *Queries) ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error) {
	return q.listOrders(ctx, `WHERE owner_id = $1`, ownerID)
}

// ListOrders returns all orders, optionally filtered by status, newest-first.
func (q *Queries) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status == "" {
		return q.listOrders(ctx, ``)
	}
	return q.listOrders(ctx, `WHERE status = $1`, status)
}

func (q *Queries) listOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := q.db.Query(ctx, `SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := q.attachOrderLines(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetOrderStatus writes a new status plus the timestamps that accompany it.
// Transition legality is validated by the order workflow before calling.
func (q *Queries) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, deliveredAt time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders SET status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = now()
		WHERE id = $1`,
		id, status, nullTime(deliveredAt))
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// MarkOrderPaid flags the order paid. Used when a cash-on-delivery order is
// delivered.
func (q *Queries) MarkOrderPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders SET is_paid = true, paid_at = $2, updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetCancelRequest records a user's cancellation request.
func (q *Queries) SetCancelRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders
		SET cancel_requested = true, cancel_reason = $2, cancel_requested_at = $3, updated_at = now()
		WHERE id = $1`, id, reason, at)
	if err != nil {
		return fmt.Errorf("set cancel request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetCancelHandled marks the cancel request handled and moves the order to
// cancelled in the same statement.
func (q *Queries) SetCancelHandled(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, cancel_handled = true, cancel_handled_at = $3, updated_at = now()
		WHERE id = $1`, id, domain.StatusCancelled, at)
	if err != nil {
		return fmt.Errorf("set cancel handled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetReturnRequest records a user's return request on a delivered order.
func (q *Queries) SetReturnRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE orders
		SET return_requested = true, return_reason = $2, return_requested_at = $3,
			return_status = $4, updated_at = now()
		WHERE id = $1`, id, reason, at, domain.ReturnPending)
	if err != nil {
		return fmt.Errorf("set return request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// SetReturnHandled records the admin decision. An approval also moves the
// order to refunded and persists the refund result; a rejection leaves the
// order status untouched.
func (q *Queries) SetReturnHandled(ctx context.Context, id uuid.UUID, decision domain.ReturnRequestStatus, refund *domain.RefundResult, at time.Time) error {
	if decision == domain.ReturnApproved {
		var refundID, refundStatus string
		var refundAmount int64
		if refund != nil {
			refundID = refund.RefundID
			refundStatus = refund.Status
			refundAmount = refund.AmountCents
		}
		tag, err := q.db.Exec(ctx, `
			UPDATE orders
			SET status = $2, return_status = $3, return_handled_at = $4,
				refund_id = $5, refund_status = $6, refund_amount_cents = $7,
				refunded_at = $4, updated_at = now()
			WHERE id = $1`,
			id, domain.StatusRefunded, decision, at, refundID, refundStatus, refundAmount)
		if err != nil {
			return fmt.Errorf("set return approved: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	}

	tag, err := q.db.Exec(ctx, `
		UPDATE orders SET return_status = $2, return_handled_at = $3, updated_at = now()
		WHERE id = $1`, id, decision, at)
	if err != nil {
		return fmt.Errorf("set return handled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
