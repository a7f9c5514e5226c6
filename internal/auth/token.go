// Package auth mints and verifies the signed bearer tokens the API accepts.
// Tokens are HMAC-signed JSON payloads; the system does no user management,
// it only trusts identities asserted by a token holder of the shared secret.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaybooks/folio/internal/domain"
)

// Token verification errors.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")
)

type claims struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	Email     string    `json:"email,omitempty"`
	Admin     bool      `json:"admin,omitempty"`
	Guest     bool      `json:"guest,omitempty"`
	ExpiresAt int64     `json:"exp"`
}

// Tokens mints and verifies identity tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token codec. TTL of zero defaults to 30 days, long
// enough for a guest's cart to survive a browsing session.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Mint returns a signed token for the identity.
func (t *Tokens) Mint(id domain.Identity) (string, error) {
	payload, err := json.Marshal(claims{
		OwnerID:   id.OwnerID,
		Email:     id.Email,
		Admin:     id.Admin,
		Guest:     id.Guest,
		ExpiresAt: t.now().Add(t.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + t.sign(body), nil
}

// Verify parses and checks a token, returning the identity it asserts.
func (t *Tokens) Verify(token string) (*domain.Identity, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrMalformedToken
	}
	if !hmac.Equal([]byte(t.sign(body)), []byte(sig)) {
		return nil, ErrBadSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrMalformedToken
	}
	var c claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrMalformedToken
	}
	if c.OwnerID == uuid.Nil {
		return nil, ErrMalformedToken
	}
	if t.now().Unix() > c.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return &domain.Identity{
		OwnerID: c.OwnerID,
		Email:   c.Email,
		Admin:   c.Admin,
		Guest:   c.Guest,
	}, nil
}

func (t *Tokens) sign(body string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
