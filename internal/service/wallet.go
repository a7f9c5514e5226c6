package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/repository"
)

// WalletService provides business logic for the per-owner store-credit
// ledger. The balance is always the sum of credits minus debits; a debit
// that would drive it negative fails and changes nothing.
type WalletService interface {
	// GetWallet returns the owner's wallet, zero-balance if none exists yet.
	GetWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)

	// ListTransactions returns the owner's ledger entries newest-first.
	ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]domain.WalletTransaction, error)

	// Credit adds funds with a ledger entry.
	Credit(ctx context.Context, ownerID uuid.UUID, amountCents int64, description string) (*domain.Wallet, error)

	// Debit withdraws funds with a ledger entry. Fails with an
	// insufficient-funds error when the balance cannot cover the amount.
	Debit(ctx context.Context, ownerID uuid.UUID, amountCents int64, description string) (*domain.Wallet, error)
}

type walletService struct {
	store  Store
	logger *slog.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(store Store, logger *slog.Logger) WalletService {
	return &walletService{store: store, logger: logger}
}

func (s *walletService) GetWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.store.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, "service.wallet.GetWallet", "failed to load wallet")
	}
	return wallet, nil
}

func (s *walletService) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]domain.WalletTransaction, error) {
	const op = "service.wallet.ListTransactions"

	wallet, err := s.store.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load wallet")
	}
	if wallet.ID == uuid.Nil {
		return []domain.WalletTransaction{}, nil
	}

	txs, err := s.store.ListWalletTransactions(ctx, wallet.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load wallet transactions")
	}
	return txs, nil
}

func (s *walletService) Credit(ctx context.Context, ownerID uuid.UUID, amountCents int64, description string) (*domain.Wallet, error) {
	return s.apply(ctx, "service.wallet.Credit", ownerID, func(q repository.Querier) error {
		return creditWallet(ctx, q, ownerID, amountCents, description)
	})
}

func (s *walletService) Debit(ctx context.Context, ownerID uuid.UUID, amountCents int64, description string) (*domain.Wallet, error) {
	return s.apply(ctx, "service.wallet.Debit", ownerID, func(q repository.Querier) error {
		return debitWallet(ctx, q, ownerID, amountCents, description)
	})
}

// apply runs a ledger mutation in a transaction, retrying on version
// conflicts, and reloads the wallet on success.
func (s *walletService) apply(ctx context.Context, op string, ownerID uuid.UUID, fn func(repository.Querier) error) (*domain.Wallet, error) {
	for attempt := 0; attempt < versionRetries; attempt++ {
		err := s.store.ExecTx(ctx, fn)
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Debug("wallet version conflict, retrying",
				"owner_id", ownerID,
				"attempt", attempt+1,
			)
			continue
		}
		if err != nil {
			if domain.ErrorCode(err) != domain.EINTERNAL {
				return nil, err
			}
			return nil, domain.Internal(err, op, "failed to update wallet")
		}

		wallet, err := s.store.GetWalletByOwner(ctx, ownerID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to reload wallet")
		}
		return wallet, nil
	}

	return nil, domain.Conflict(op, "Wallet was modified concurrently, please retry")
}

// creditWallet adds funds inside an open transaction. Shared with the order
// refund flow so the status change and the credit commit together.
func creditWallet(ctx context.Context, q repository.Querier, ownerID uuid.UUID, amountCents int64, description string) error {
	if amountCents <= 0 {
		return domain.ErrInvalidAmount
	}

	wallet, err := q.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if wallet.ID == uuid.Nil {
		wallet, err = q.CreateWallet(ctx, ownerID)
		if err != nil {
			return err
		}
	}

	if err := q.UpdateWalletBalance(ctx, wallet.ID, wallet.BalanceCents+amountCents, wallet.Version); err != nil {
		return err
	}
	_, err = q.InsertWalletTransaction(ctx, &domain.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        domain.TransactionCredit,
		AmountCents: amountCents,
		Description: description,
	})
	return err
}

// debitWallet withdraws funds inside an open transaction. Shared with the
// wallet checkout path so the debit and the order creation commit together.
func debitWallet(ctx context.Context, q repository.Querier, ownerID uuid.UUID, amountCents int64, description string) error {
	if amountCents <= 0 {
		return domain.ErrInvalidAmount
	}

	wallet, err := q.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if wallet.ID == uuid.Nil || wallet.BalanceCents < amountCents {
		return domain.ErrInsufficientFunds
	}

	if err := q.UpdateWalletBalance(ctx, wallet.ID, wallet.BalanceCents-amountCents, wallet.Version); err != nil {
		return err
	}
	_, err = q.InsertWalletTransaction(ctx, &domain.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        domain.TransactionDebit,
		AmountCents: amountCents,
		Description: description,
	})
	return err
}
