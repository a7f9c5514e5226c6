package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet domain errors.
var (
	ErrInsufficientFunds = &Error{Code: EFUNDS, Message: "Insufficient wallet balance"}
	ErrInvalidAmount     = &Error{Code: EINVALID, Message: "Amount must be greater than zero"}
)

// TransactionType is the direction of a wallet ledger entry.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// WalletTransaction is one append-only ledger entry. Entries are never
// modified or deleted after insertion.
type WalletTransaction struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	Type        TransactionType
	AmountCents int64
	Description string
	CreatedAt   time.Time
}

// Wallet is the per-owner store-credit ledger. BalanceCents always equals
// the sum of credits minus the sum of debits; debits that would drive it
// negative fail instead. Version supports optimistic concurrency like carts.
type Wallet struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	BalanceCents int64
	Version      int32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmptyWallet returns the zero-balance wallet served before the owner's
// ledger row exists. Ledgers are created lazily on first credit or debit.
func EmptyWallet(ownerID uuid.UUID) *Wallet {
	return &Wallet{OwnerID: ownerID}
}
