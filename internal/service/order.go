package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/events"
	"github.com/hollowaybooks/folio/internal/payment"
	"github.com/hollowaybooks/folio/internal/repository"
)

// BulkResult reports the outcome of one order in a bulk transition.
type BulkResult struct {
	OrderID uuid.UUID
	Err     error
}

// OrderService provides the order workflow: the forward fulfillment chain
// plus the request-driven cancel and return side branches.
//
// Forward transitions move one step at a time. Cancelled and refunded states
// are reachable only by approving a customer's request, never directly.
type OrderService interface {
	// GetOrder returns any order. Admin surface.
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// GetOrderForOwner returns the order only if owned by ownerID.
	GetOrderForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Order, error)

	// ListOrdersByOwner returns the owner's orders newest-first.
	ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error)

	// ListOrders returns all orders, optionally filtered by status.
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)

	// AdvanceStatus moves an order one step along the fulfillment chain.
	AdvanceStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error)

	// BulkAdvance applies AdvanceStatus to each order, best-effort. One
	// illegal transition does not stop the rest.
	BulkAdvance(ctx context.Context, ids []uuid.UUID, to domain.OrderStatus) []BulkResult

	// RequestCancel records a customer's cancellation request on an order
	// that has not started shipping.
	RequestCancel(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error)

	// ApproveCancel cancels the order, restores stock, and refunds paid
	// orders to the wallet, atomically.
	ApproveCancel(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// RequestReturn records a customer's return request on a delivered order.
	RequestReturn(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error)

	// HandleReturn approves or rejects a return request. Approval moves the
	// order to refunded and credits the wallet atomically; rejection leaves
	// the order delivered.
	HandleReturn(ctx context.Context, id uuid.UUID, approve bool) (*domain.Order, error)
}

type orderService struct {
	store     Store
	provider  payment.Provider
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates an OrderService.
func NewOrderService(store Store, provider payment.Provider, publisher events.Publisher, logger *slog.Logger) OrderService {
	return &orderService{
		store:     store,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *orderService) GetOrderForOwner(ctx context.Context, ownerID, id uuid.UUID) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	// Another owner's order reads as absent rather than forbidden, so order
	// IDs cannot be probed.
	if order.OwnerID != ownerID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error) {
	orders, err := s.store.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, "service.order.ListOrdersByOwner", "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	const op = "service.order.ListOrders"

	if status != "" && !status.Known() {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown order status: %s", status))
	}
	orders, err := s.store.ListOrders(ctx, status)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}
	return orders, nil
}

func (s *orderService) AdvanceStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	const op = "service.order.AdvanceStatus"

	if !to.Known() {
		return nil, domain.Invalid(op, fmt.Sprintf("unknown order status: %s", to))
	}

	var from domain.OrderStatus
	err := s.store.ExecTx(ctx, func(q repository.Querier) error {
		order, err := q.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status

		if !domain.CanTransition(order.Status, to) {
			return domain.InvalidState(op,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
		}

		var deliveredAt time.Time
		if to == domain.StatusDelivered {
			deliveredAt = s.now()
			if !order.IsPaid && order.PaymentMethod == domain.PaymentCOD {
				if err := q.MarkOrderPaid(ctx, id, deliveredAt); err != nil {
					return err
				}
			}
		}
		return q.SetOrderStatus(ctx, id, to, deliveredAt)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to reload order")
	}

	s.notifyStatusChange(ctx, order, from, to)
	return order, nil
}

func (s *orderService) BulkAdvance(ctx context.Context, ids []uuid.UUID, to domain.OrderStatus) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		_, err := s.AdvanceStatus(ctx, id, to)
		results = append(results, BulkResult{OrderID: id, Err: err})
	}
	return results
}

func (s *orderService) RequestCancel(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error) {
	const op = "service.order.RequestCancel"

	order, err := s.GetOrderForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if order.CancelRequest.Requested {
		return nil, domain.ErrRequestAlreadyMade
	}
	if !order.CanRequestCancel() {
		return nil, domain.InvalidState(op,
			fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	if err := s.store.SetCancelRequest(ctx, id, reason, s.now()); err != nil {
		return nil, domain.Internal(err, op, "failed to record cancel request")
	}
	return s.store.GetOrder(ctx, id)
}

func (s *orderService) ApproveCancel(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "service.order.ApproveCancel"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CancelRequest.Requested {
		return nil, domain.ErrNoCancelRequest
	}
	if order.CancelRequest.Handled {
		return nil, domain.ErrRequestAlreadyClosed
	}
	if !order.CanRequestCancel() {
		return nil, domain.InvalidState(op,
			fmt.Sprintf("order in status %s can no longer be cancelled", order.Status))
	}

	// The gateway refund runs before the local transaction. If it fails,
	// nothing has changed and the approval can simply be retried.
	if err := s.refundGateway(ctx, order, op); err != nil {
		return nil, err
	}

	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		locked, err := q.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked.CancelRequest.Handled {
			return domain.ErrRequestAlreadyClosed
		}

		if err := q.SetCancelHandled(ctx, id, s.now()); err != nil {
			return err
		}
		for _, line := range locked.Lines {
			if err := q.RestoreStock(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}
		}
		if locked.IsPaid {
			return creditWallet(ctx, q, locked.OwnerID, locked.TotalPriceCents,
				"Refund for cancelled order "+locked.OrderNumber)
		}
		return nil
	})
	if err != nil {
		if domain.ErrorCode(err) != domain.EINTERNAL {
			return nil, err
		}
		return nil, domain.Internal(err, op, "failed to cancel order")
	}

	updated, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to reload order")
	}

	s.notifyStatusChange(ctx, updated, order.Status, domain.StatusCancelled)
	if updated.IsPaid {
		s.notifyRefund(ctx, updated)
	}
	return updated, nil
}

func (s *orderService) RequestReturn(ctx context.Context, ownerID, id uuid.UUID, reason string) (*domain.Order, error) {
	const op = "service.order.RequestReturn"

	order, err := s.GetOrderForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if order.ReturnRequest.Requested {
		return nil, domain.ErrRequestAlreadyMade
	}
	if !order.CanRequestReturn() {
		return nil, domain.InvalidState(op, "only delivered orders can be returned")
	}

	if err := s.store.SetReturnRequest(ctx, id, reason, s.now()); err != nil {
		return nil, domain.Internal(err, op, "failed to record return request")
	}
	return s.store.GetOrder(ctx, id)
}

func (s *orderService) HandleReturn(ctx context.Context, id uuid.UUID, approve bool) (*domain.Order, error) {
	const op = "service.order.HandleReturn"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.ReturnRequest.Requested {
		return nil, domain.ErrNoReturnRequest
	}
	if order.ReturnRequest.Status != domain.ReturnPending {
		return nil, domain.ErrRequestAlreadyClosed
	}

	if !approve {
		if err := s.store.SetReturnHandled(ctx, id, domain.ReturnRejected, nil, s.now()); err != nil {
			return nil, domain.Internal(err, op, "failed to record return decision")
		}
		return s.store.GetOrder(ctx, id)
	}

	if err := s.refundGateway(ctx, order, op); err != nil {
		return nil, err
	}

	refund := &domain.RefundResult{
		Status:      "completed",
		AmountCents: order.TotalPriceCents,
	}
	if order.RefundResult != nil {
		refund = order.RefundResult
	}

	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		locked, err := q.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked.ReturnRequest.Status != domain.ReturnPending {
			return domain.ErrRequestAlreadyClosed
		}

		if err := q.SetReturnHandled(ctx, id, domain.ReturnApproved, refund, s.now()); err != nil {
			return err
		}
		if locked.IsPaid {
			return creditWallet(ctx, q, locked.OwnerID, locked.TotalPriceCents,
				"Refund for returned order "+locked.OrderNumber)
		}
		return nil
	})
	if err != nil {
		if domain.ErrorCode(err) != domain.EINTERNAL {
			return nil, err
		}
		return nil, domain.Internal(err, op, "failed to approve return")
	}

	updated, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to reload order")
	}

	s.notifyStatusChange(ctx, updated, order.Status, domain.StatusRefunded)
	s.notifyRefund(ctx, updated)
	return updated, nil
}

// refundGateway refunds the external capture for gateway-paid orders. COD
// and wallet payments have nothing to refund externally. The refund result
// is stored back on the order passed in.
func (s *orderService) refundGateway(ctx context.Context, order *domain.Order, op string) error {
	if !order.IsPaid || !order.PaymentMethod.Gateway() || order.PaymentResult == nil {
		return nil
	}

	refund, err := s.provider.Refund(ctx, payment.RefundParams{
		CaptureID:   order.PaymentResult.CaptureID,
		AmountCents: order.TotalPriceCents,
		Reason:      "Order " + order.OrderNumber,
	})
	if err != nil {
		return domain.Gateway(err, op, "Payment gateway refund failed")
	}
	order.RefundResult = &domain.RefundResult{
		RefundID:    refund.RefundID,
		Status:      refund.Status,
		AmountCents: refund.AmountCents,
	}
	return nil
}

// notifyStatusChange publishes the transition and queues the status email.
// Best-effort: the transition is already committed.
func (s *orderService) notifyStatusChange(ctx context.Context, order *domain.Order, from, to domain.OrderStatus) {
	if err := s.publisher.Publish(ctx, events.SubjectOrderStatusChanged, events.OrderStatusChanged{
		OrderID:   order.ID,
		From:      string(from),
		To:        string(to),
		ChangedAt: s.now(),
	}); err != nil {
		s.logger.Error("failed to publish status change",
			"order_id", order.ID,
			"error", err,
		)
	}

	payload, _ := json.Marshal(EmailJobPayload{OrderID: order.ID, Email: order.OwnerEmail, Status: string(to)})
	if _, err := s.store.EnqueueJob(ctx, JobOrderStatusEmail, payload, s.now()); err != nil {
		s.logger.Error("failed to enqueue status email",
			"order_id", order.ID,
			"error", err,
		)
	}
}

// notifyRefund publishes the refund event and queues the refund email.
func (s *orderService) notifyRefund(ctx context.Context, order *domain.Order) {
	if err := s.publisher.Publish(ctx, events.SubjectOrderRefunded, events.OrderRefunded{
		OrderID:     order.ID,
		OwnerID:     order.OwnerID,
		AmountCents: order.TotalPriceCents,
		RefundedAt:  s.now(),
	}); err != nil {
		s.logger.Error("failed to publish refund event",
			"order_id", order.ID,
			"error", err,
		)
	}

	payload, _ := json.Marshal(EmailJobPayload{OrderID: order.ID, Email: order.OwnerEmail})
	if _, err := s.store.EnqueueJob(ctx, JobRefundNoticeEmail, payload, s.now()); err != nil {
		s.logger.Error("failed to enqueue refund email",
			"order_id", order.ID,
			"error", err,
		)
	}
}
