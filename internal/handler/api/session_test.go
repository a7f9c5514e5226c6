package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowaybooks/folio/internal/auth"
)

func TestSessionHandler_CreateGuest(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	h := NewSessionHandler(tokens, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/session/guest", nil)
	w := httptest.NewRecorder()
	h.CreateGuest(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token   string    `json:"token"`
		OwnerID uuid.UUID `json:"owner_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.OwnerID)

	// The token must verify and carry the same owner ID.
	id, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.OwnerID, id.OwnerID)
	assert.True(t, id.Guest)
	assert.False(t, id.Admin)
}

func TestSessionHandler_CreateGuest_WithEmail(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	h := NewSessionHandler(tokens, testLogger())

	body := `{"email":"reader@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session/guest", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateGuest(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	id, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", id.Email)
}

func TestSessionHandler_CreateGuest_BadEmail(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	h := NewSessionHandler(tokens, testLogger())

	body := `{"email":"not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session/guest", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateGuest(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
