package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
)

// fakeStore is an in-memory Store for service tests. ExecTx snapshots state
// before running fn and restores it on error, mirroring a real rollback.
type fakeStore struct {
	products map[uuid.UUID]*domain.Product
	vouchers []domain.Voucher
	carts    map[uuid.UUID]*domain.Cart
	orders   map[uuid.UUID]*domain.Order
	wallets  map[uuid.UUID]*domain.Wallet
	walletTx []domain.WalletTransaction
	jobs     []repository.Job

	// saveCartErr forces SaveCart to fail n times, for retry tests.
	saveCartErr      error
	saveCartFailures int

	// walletVersionFailures forces UpdateWalletBalance conflicts n times.
	walletVersionFailures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[uuid.UUID]*domain.Product{},
		carts:    map[uuid.UUID]*domain.Cart{},
		orders:   map[uuid.UUID]*domain.Order{},
		wallets:  map[uuid.UUID]*domain.Wallet{},
	}
}

func (f *fakeStore) snapshot() *fakeStore {
	s := newFakeStore()
	for id, p := range f.products {
		cp := *p
		cp.Variants = append([]domain.Variant(nil), p.Variants...)
		s.products[id] = &cp
	}
	s.vouchers = append([]domain.Voucher(nil), f.vouchers...)
	for id, c := range f.carts {
		cp := *c
		cp.Lines = append([]domain.CartLine(nil), c.Lines...)
		s.carts[id] = &cp
	}
	for id, o := range f.orders {
		cp := *o
		cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
		s.orders[id] = &cp
	}
	for id, w := range f.wallets {
		cp := *w
		s.wallets[id] = &cp
	}
	s.walletTx = append([]domain.WalletTransaction(nil), f.walletTx...)
	s.jobs = append([]repository.Job(nil), f.jobs...)
	return s
}

func (f *fakeStore) restore(s *fakeStore) {
	f.products = s.products
	f.vouchers = s.vouchers
	f.carts = s.carts
	f.orders = s.orders
	f.wallets = s.wallets
	f.walletTx = s.walletTx
	f.jobs = s.jobs
}

func (f *fakeStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

// --- products ---

func (f *fakeStore) addProduct(name string, priceCents int64, stock int32) (*domain.Product, *domain.Variant) {
	p := &domain.Product{
		ID:   uuid.New(),
		Name: name,
		Slug: slugify(name),
		Variants: []domain.Variant{{
			ID:           uuid.New(),
			Format:       domain.FormatPaperback,
			PriceCents:   priceCents,
			CountInStock: stock,
		}},
	}
	p.Variants[0].ProductID = p.ID
	f.products[p.ID] = p
	return p, &p.Variants[0]
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	f.products[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	existing, ok := f.products[p.ID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	cp.Variants = existing.Variants
	f.products[p.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	cp.Variants = append([]domain.Variant(nil), p.Variants...)
	return &cp, nil
}

func (f *fakeStore) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return f.GetProduct(ctx, p.ID)
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeStore) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateVariant(ctx context.Context, v *domain.Variant) (*domain.Variant, error) {
	p, ok := f.products[v.ProductID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *v
	cp.ID = uuid.New()
	p.Variants = append(p.Variants, cp)
	return &cp, nil
}

func (f *fakeStore) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	p, ok := f.products[v.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].ID == v.ID {
			p.Variants[i] = *v
			return nil
		}
	}
	return domain.ErrVariantNotFound
}

func (f *fakeStore) DecrementStock(ctx context.Context, variantID uuid.UUID, qty int32) error {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				if p.Variants[i].CountInStock < qty {
					return domain.InsufficientStock("fake.DecrementStock", "not enough stock")
				}
				p.Variants[i].CountInStock -= qty
				return nil
			}
		}
	}
	return domain.ErrVariantNotFound
}

func (f *fakeStore) RestoreStock(ctx context.Context, variantID uuid.UUID, qty int32) error {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants[i].CountInStock += qty
				return nil
			}
		}
	}
	return domain.ErrVariantNotFound
}

func (f *fakeStore) ListLowStockVariants(ctx context.Context, threshold int32) ([]repository.LowStockVariant, error) {
	var out []repository.LowStockVariant
	for _, p := range f.products {
		for _, v := range p.Variants {
			if v.CountInStock <= threshold {
				out = append(out, repository.LowStockVariant{
					ProductID:    p.ID,
					VariantID:    v.ID,
					ProductName:  p.Name,
					Format:       v.Format,
					CountInStock: v.CountInStock,
				})
			}
		}
	}
	return out, nil
}

// --- vouchers ---

func (f *fakeStore) CreateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	cp := *v
	cp.ID = uuid.New()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	f.vouchers = append(f.vouchers, cp)
	return &cp, nil
}

func (f *fakeStore) UpdateVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == v.ID {
			f.vouchers[i] = *v
			return v, nil
		}
	}
	return nil, domain.ErrVoucherNotFound
}

func (f *fakeStore) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id {
			f.vouchers = append(f.vouchers[:i], f.vouchers[i+1:]...)
			return nil
		}
	}
	return domain.ErrVoucherNotFound
}

func (f *fakeStore) GetVoucher(ctx context.Context, id uuid.UUID) (*domain.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id {
			cp := f.vouchers[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrVoucherNotFound
}

func (f *fakeStore) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return append([]domain.Voucher(nil), f.vouchers...), nil
}

func (f *fakeStore) ListVouchersForVariant(ctx context.Context, productID, variantID uuid.UUID, now time.Time) ([]domain.Voucher, error) {
	var out []domain.Voucher
	for _, v := range f.vouchers {
		if v.Active && v.InWindow(now) && v.AppliesTo(productID, variantID) {
			out = append(out, v)
		}
	}
	return out, nil
}

// --- carts ---

func (f *fakeStore) GetCartByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	c, ok := f.carts[ownerID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cp := *c
	cp.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &cp, nil
}

func (f *fakeStore) CreateCart(ctx context.Context, ownerID uuid.UUID) (*domain.Cart, error) {
	c := &domain.Cart{ID: uuid.New(), OwnerID: ownerID, Lines: []domain.CartLine{}, Version: 1}
	f.carts[ownerID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	if f.saveCartFailures > 0 {
		f.saveCartFailures--
		return f.saveCartErr
	}
	existing, ok := f.carts[cart.OwnerID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if existing.Version != cart.Version {
		return repository.ErrVersionConflict
	}
	cart.Version++
	cp := *cart
	cp.Lines = append([]domain.CartLine(nil), cart.Lines...)
	f.carts[cart.OwnerID] = &cp
	return nil
}

// --- orders ---

func (f *fakeStore) CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	cp := *o
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
	for i := range cp.Lines {
		cp.Lines[i].ID = uuid.New()
	}
	f.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return &cp, nil
}

func (f *fakeStore) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeStore) ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.OwnerID == ownerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) SetOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, deliveredAt time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	if !deliveredAt.IsZero() {
		o.DeliveredAt = deliveredAt
	}
	return nil
}

func (f *fakeStore) MarkOrderPaid(ctx context.Context, id uuid.UUID, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.IsPaid = true
	o.PaidAt = at
	return nil
}

func (f *fakeStore) SetCancelRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.CancelRequest = domain.CancelRequest{Requested: true, Reason: reason, RequestedAt: at}
	return nil
}

func (f *fakeStore) SetCancelHandled(ctx context.Context, id uuid.UUID, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = domain.StatusCancelled
	o.CancelRequest.Handled = true
	o.CancelRequest.HandledAt = at
	return nil
}

func (f *fakeStore) SetReturnRequest(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.ReturnRequest = domain.ReturnRequest{Requested: true, Reason: reason, RequestedAt: at, Status: domain.ReturnPending}
	return nil
}

func (f *fakeStore) SetReturnHandled(ctx context.Context, id uuid.UUID, decision domain.ReturnRequestStatus, refund *domain.RefundResult, at time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.ReturnRequest.Status = decision
	o.ReturnRequest.HandledAt = at
	if decision == domain.ReturnApproved {
		o.Status = domain.StatusRefunded
		o.RefundResult = refund
		o.RefundedAt = at
	}
	return nil
}

// --- wallets ---

func (f *fakeStore) GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	w, ok := f.wallets[ownerID]
	if !ok {
		return domain.EmptyWallet(ownerID), nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeStore) CreateWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	if w, ok := f.wallets[ownerID]; ok {
		cp := *w
		return &cp, nil
	}
	w := &domain.Wallet{ID: uuid.New(), OwnerID: ownerID, Version: 1}
	f.wallets[ownerID] = w
	cp := *w
	return &cp, nil
}

func (f *fakeStore) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balanceCents int64, version int32) error {
	if f.walletVersionFailures > 0 {
		f.walletVersionFailures--
		return repository.ErrVersionConflict
	}
	for _, w := range f.wallets {
		if w.ID == id {
			if w.Version != version {
				return repository.ErrVersionConflict
			}
			w.BalanceCents = balanceCents
			w.Version++
			return nil
		}
	}
	return repository.ErrVersionConflict
}

func (f *fakeStore) InsertWalletTransaction(ctx context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	cp := *tx
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	f.walletTx = append(f.walletTx, cp)
	return &cp, nil
}

func (f *fakeStore) ListWalletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error) {
	// Newest first, matching the real query.
	var out []domain.WalletTransaction
	for i := len(f.walletTx) - 1; i >= 0; i-- {
		if f.walletTx[i].WalletID == walletID {
			out = append(out, f.walletTx[i])
		}
	}
	return out, nil
}

// --- jobs ---

func (f *fakeStore) EnqueueJob(ctx context.Context, jobType string, payload []byte, runAt time.Time) (*repository.Job, error) {
	j := repository.Job{ID: uuid.New(), JobType: jobType, Payload: payload, Status: repository.JobPending, RunAt: runAt}
	f.jobs = append(f.jobs, j)
	return &j, nil
}

func (f *fakeStore) ClaimNextJob(ctx context.Context) (*repository.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].Status == repository.JobPending {
			f.jobs[i].Status = repository.JobProcessing
			cp := f.jobs[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CompleteJob(ctx context.Context, id uuid.UUID) error {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			f.jobs[i].Status = repository.JobCompleted
		}
	}
	return nil
}

func (f *fakeStore) FailJob(ctx context.Context, id uuid.UUID, jobErr string, maxAttempts int32, retryDelay time.Duration) error {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			f.jobs[i].Status = repository.JobFailed
			f.jobs[i].LastError = jobErr
		}
	}
	return nil
}

func (f *fakeStore) jobsOfType(jobType string) []repository.Job {
	var out []repository.Job
	for _, j := range f.jobs {
		if j.JobType == jobType {
			out = append(out, j)
		}
	}
	return out
}

var _ Store = (*fakeStore)(nil)
