package api

import (
	"log/slog"
	"net/http"

	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
	"github.com/hollowaybooks/folio/internal/service"
)

// WalletHandler serves the owner's store-credit balance and ledger.
type WalletHandler struct {
	wallets service.WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a WalletHandler.
func NewWalletHandler(wallets service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{wallets: wallets, logger: logger}
}

// Get handles GET /api/wallet.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.wallet.Get")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	wallet, err := h.wallets.GetWallet(r.Context(), id.OwnerID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewWalletView(wallet))
}

// ListTransactions handles GET /api/wallet/transactions.
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := domain.RequireIdentity(r.Context(), "api.wallet.ListTransactions")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	txs, err := h.wallets.ListTransactions(r.Context(), id.OwnerID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, handler.NewWalletTransactionViews(txs))
}
