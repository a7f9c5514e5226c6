// Package api implements the storefront JSON endpoints.
package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/auth"
	"github.com/hollowaybooks/folio/internal/domain"
	"github.com/hollowaybooks/folio/internal/handler"
)

// SessionHandler mints guest identities. There is no account system; a guest
// token carries a fresh owner ID that the cart, orders, and wallet key on.
type SessionHandler struct {
	tokens *auth.Tokens
	logger *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(tokens *auth.Tokens, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{tokens: tokens, logger: logger}
}

type guestSessionRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type guestSessionResponse struct {
	Token   string    `json:"token"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// CreateGuest handles POST /api/session/guest.
func (h *SessionHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req guestSessionRequest
	if r.ContentLength > 0 {
		if err := handler.DecodeJSON(r, &req); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}

	id := domain.Identity{
		OwnerID: uuid.New(),
		Email:   req.Email,
		Guest:   true,
	}
	token, err := h.tokens.Mint(id)
	if err != nil {
		handler.ErrorResponse(w, r, domain.Internal(err, "api.session.CreateGuest", "failed to mint token"))
		return
	}

	h.logger.Info("guest session created", "owner_id", id.OwnerID)
	handler.RespondJSON(w, http.StatusCreated, guestSessionResponse{Token: token, OwnerID: id.OwnerID})
}
