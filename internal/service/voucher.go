package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
)

// VoucherService provides business logic for voucher administration.
//
// Vouchers never mutate cart lines retroactively: editing or deleting a
// voucher affects prices quoted from then on, while lines already in carts
// keep their snapshot.
type VoucherService interface {
	ListVouchers(ctx context.Context) ([]domain.Voucher, error)
	GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error)
	CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, id uuid.UUID) error
}

type voucherService struct {
	store  Store
	logger *slog.Logger
}

// NewVoucherService creates a VoucherService.
func NewVoucherService(store Store, logger *slog.Logger) VoucherService {
	return &voucherService{store: store, logger: logger}
}

func (s *voucherService) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	vouchers, err := s.store.ListVouchers(ctx)
	if err != nil {
		return nil, domain.Internal(err, "service.voucher.ListVouchers", "failed to list vouchers")
	}
	return vouchers, nil
}

func (s *voucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	return s.store.GetVoucher(ctx, id)
}

func (s *voucherService) CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	const op = "service.voucher.CreateVoucher"

	if err := validateVoucher(op, v); err != nil {
		return nil, err
	}

	created, err := s.store.CreateVoucher(ctx, v)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create voucher")
	}

	s.logger.Info("voucher created",
		"voucher_id", created.ID,
		"name", created.Name,
		"kind", created.Kind,
	)
	return created, nil
}

func (s *voucherService) UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	const op = "service.voucher.UpdateVoucher"

	if err := validateVoucher(op, v); err != nil {
		return nil, err
	}
	return s.store.UpdateVoucher(ctx, v)
}

func (s *voucherService) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteVoucher(ctx, id)
}

func validateVoucher(op string, v *domain.Voucher) error {
	if v.Name == "" {
		return domain.Invalid(op, "voucher name is required")
	}

	switch v.Kind {
	case domain.VoucherFreeShipping:
		// Free-shipping vouchers carry no discount calculation.
		v.DiscountKind = domain.DiscountNone
		v.DiscountValue = 0
	case domain.VoucherDiscount:
		// Unknown discount kinds are rejected here, never treated as zero.
		if !v.DiscountKind.Valid() || v.DiscountKind == domain.DiscountNone {
			return domain.Invalid(op, fmt.Sprintf("unknown discount kind: %s", v.DiscountKind))
		}
		if v.DiscountKind == domain.DiscountPercentage && (v.DiscountValue < 0 || v.DiscountValue > 100) {
			return domain.Invalid(op, "percentage discount must be between 0 and 100")
		}
		if v.DiscountKind == domain.DiscountFixed && v.DiscountValue < 0 {
			return domain.Invalid(op, "fixed discount cannot be negative")
		}
	default:
		return domain.Invalid(op, fmt.Sprintf("unknown voucher kind: %s", v.Kind))
	}

	if v.MaxDiscountCents < 0 {
		return domain.Invalid(op, "max discount cannot be negative")
	}
	if v.EndDate.Before(v.StartDate) {
		return domain.Invalid(op, "voucher end date is before its start date")
	}
	return nil
}
