package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hollowaybooks/folio/internal/domain"
)

// GetWalletByOwner returns the owner's wallet, or domain.EmptyWallet when no
// ledger row exists yet.
func (q *Queries) GetWalletByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	var w domain.Wallet
	err := q.db.QueryRow(ctx, `
		SELECT id, owner_id, balance_cents, version, created_at, updated_at
		FROM wallets WHERE owner_id = $1`, ownerID).
		Scan(&w.ID, &w.OwnerID, &w.BalanceCents, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EmptyWallet(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// CreateWallet creates the zero-balance ledger row for an owner. Safe to race:
// the unique owner constraint means the loser re-reads instead of duplicating.
func (q *Queries) CreateWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	var w domain.Wallet
	err := q.db.QueryRow(ctx, `
		INSERT INTO wallets (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO UPDATE SET updated_at = wallets.updated_at
		RETURNING id, owner_id, balance_cents, version, created_at, updated_at`, ownerID).
		Scan(&w.ID, &w.OwnerID, &w.BalanceCents, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	return &w, nil
}

// UpdateWalletBalance writes a new balance under the optimistic version
// check. Zero rows affected means another writer got there first and the
// caller should re-read and retry.
func (q *Queries) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balanceCents int64, version int32) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE wallets
		SET balance_cents = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`,
		id, balanceCents, version)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

// InsertWalletTransaction appends a ledger entry. Entries are immutable.
func (q *Queries) InsertWalletTransaction(ctx context.Context, tx *domain.WalletTransaction) (*domain.WalletTransaction, error) {
	out := *tx
	err := q.db.QueryRow(ctx, `
		INSERT INTO wallet_transactions (wallet_id, type, amount_cents, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		tx.WalletID, tx.Type, tx.AmountCents, tx.Description).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert wallet transaction: %w", err)
	}
	return &out, nil
}

// ListWalletTransactions returns the ledger newest-first.
func (q *Queries) ListWalletTransactions(ctx context.Context, walletID uuid.UUID) ([]domain.WalletTransaction, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, wallet_id, type, amount_cents, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.AmountCents, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
