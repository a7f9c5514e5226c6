package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hollowaybooks/folio/internal/email"
	"github.com/hollowaybooks/folio/internal/events"
	"github.com/hollowaybooks/folio/internal/repository"
	"github.com/hollowaybooks/folio/internal/service"
)

// processEmailJob renders and sends the order email for the job. The order is
// reloaded so the email always reflects committed state.
func (w *Worker) processEmailJob(ctx context.Context, job *repository.Job) error {
	var payload service.EmailJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal email payload: %w", err)
	}

	order, err := w.store.GetOrder(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", payload.OrderID, err)
	}

	to := payload.Email
	if to == "" {
		to = order.OwnerEmail
	}
	if to == "" {
		// Nothing to send to; treat as done rather than retrying forever.
		w.logger.Warn("email job without recipient", "job_id", job.ID, "order_id", order.ID)
		return nil
	}

	switch job.JobType {
	case service.JobOrderConfirmationEmail:
		items := make([]email.OrderItem, 0, len(order.Lines))
		for _, line := range order.Lines {
			items = append(items, email.OrderItem{
				Name:       line.Name,
				Format:     string(line.Format),
				Quantity:   line.Quantity,
				PriceCents: line.DiscountedPriceCents,
			})
		}
		return w.emails.SendOrderConfirmation(ctx, email.OrderConfirmationEmail{
			Email:         to,
			OrderNumber:   order.OrderNumber,
			OrderDate:     order.CreatedAt,
			Items:         items,
			ItemsCents:    order.ItemsPriceCents,
			ShippingCents: order.ShippingCents,
			TaxCents:      order.TaxPriceCents,
			TotalCents:    order.TotalPriceCents,
			PaymentMethod: string(order.PaymentMethod),
		})

	case service.JobOrderStatusEmail:
		status := payload.Status
		if status == "" {
			status = string(order.Status)
		}
		return w.emails.SendOrderStatus(ctx, email.OrderStatusEmail{
			Email:       to,
			OrderNumber: order.OrderNumber,
			Status:      status,
			ChangedAt:   job.CreatedAt,
		})

	case service.JobRefundNoticeEmail:
		return w.emails.SendRefundNotice(ctx, email.RefundNoticeEmail{
			Email:       to,
			OrderNumber: order.OrderNumber,
			AmountCents: order.TotalPriceCents,
			RefundedAt:  order.RefundedAt,
		})
	}
	return fmt.Errorf("unknown email job type: %s", job.JobType)
}

// processLowStockScan alerts on every variant at or below the threshold.
func (w *Worker) processLowStockScan(ctx context.Context) error {
	variants, err := w.store.ListLowStockVariants(ctx, w.config.LowStockThreshold)
	if err != nil {
		return fmt.Errorf("list low stock variants: %w", err)
	}

	for _, v := range variants {
		if err := w.publisher.Publish(ctx, events.SubjectStockLow, events.StockLow{
			ProductID:    v.ProductID,
			VariantID:    v.VariantID,
			ProductName:  v.ProductName,
			Format:       string(v.Format),
			CountInStock: v.CountInStock,
		}); err != nil {
			w.logger.Error("failed to publish low stock event",
				"variant_id", v.VariantID,
				"error", err,
			)
		}

		if w.config.AlertEmail == "" {
			continue
		}
		if err := w.emails.SendLowStockAlert(ctx, email.LowStockEmail{
			Email:        w.config.AlertEmail,
			ProductName:  v.ProductName,
			Format:       string(v.Format),
			CountInStock: v.CountInStock,
		}); err != nil {
			return fmt.Errorf("send low stock alert for %s: %w", v.VariantID, err)
		}
	}
	return nil
}
