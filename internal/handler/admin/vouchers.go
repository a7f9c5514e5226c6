package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// VoucherHandler manages discount and free-shipping vouchers.
type VoucherHandler struct {
	vouchers service.VoucherService
	logger   *slog.Logger
}

// NewVoucherHandler creates a VoucherHandler.
func NewVoucherHandler(vouchers service.VoucherService, logger *slog.Logger) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers, logger: logger}
}

type variantRefRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

type voucherRequest struct {
	Name               string              `json:"name" validate:"required"`
	Kind               string              `json:"kind" validate:"required"`
	DiscountKind       string              `json:"discount_kind"`
	DiscountValue      int64               `json:"discount_value"`
	MaxDiscountCents   int64               `json:"max_discount_cents"`
	MinSpendCents      int64               `json:"min_spend_cents"`
	StartDate          time.Time           `json:"start_date" validate:"required"`
	EndDate            time.Time           `json:"end_date" validate:"required"`
	Active             bool                `json:"active"`
	ApplicableProducts []uuid.UUID         `json:"applicable_products"`
	ApplicableVariants []variantRefRequest `json:"applicable_variants"`
}

func (req *voucherRequest) toDomain() *domain.Voucher {
	refs := make([]domain.VariantRef, 0, len(req.ApplicableVariants))
	for _, ref := range req.ApplicableVariants {
		refs = append(refs, domain.VariantRef{ProductID: ref.ProductID, VariantID: ref.VariantID})
	}
	return &domain.Voucher{
		Name:               req.Name,
		Kind:               domain.VoucherKind(req.Kind),
		DiscountKind:       domain.DiscountKind(req.DiscountKind),
		DiscountValue:      req.DiscountValue,
		MaxDiscountCents:   req.MaxDiscountCents,
		MinSpendCents:      req.MinSpendCents,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Active:             req.Active,
		ApplicableProducts: req.ApplicableProducts,
		ApplicableVariants: refs,
	}
}

// List handles GET /api/admin/vouchers.
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.vouchers.ListVouchers(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewVoucherViews(vouchers))
}

// Get handles GET /api/admin/vouchers/{id}.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "admin.vouchers.Get"

	voucherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid voucher id"))
		return
	}

	voucher, err := h.vouchers.GetVoucher(r.Context(), voucherID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewVoucherView(voucher))
}

// Create handles POST /api/admin/vouchers.
func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req voucherRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	voucher, err := h.vouchers.CreateVoucher(r.Context(), req.toDomain())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, handler.NewVoucherView(voucher))
}

// Update handles PUT /api/admin/vouchers/{id}.
func (h *VoucherHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "admin.vouchers.Update"

	voucherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid voucher id"))
		return
	}

	var req voucherRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	voucher := req.toDomain()
	voucher.ID = voucherID
	updated, err := h.vouchers.UpdateVoucher(r.Context(), voucher)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewVoucherView(updated))
}

// Delete handles DELETE /api/admin/vouchers/{id}.
func (h *VoucherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "admin.vouchers.Delete"

	voucherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid(op, "invalid voucher id"))
		return
	}

	if err := h.vouchers.DeleteVoucher(r.Context(), voucherID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
