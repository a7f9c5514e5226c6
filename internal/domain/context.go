// Package domain provides core business types and context helpers for Folio.
//
// Context helpers centralize request-scoped identity access so authorization
// checks look the same throughout the codebase. The API boundary performs
// authentication; services only consume the identity placed here.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// identityContextKey stores the authenticated identity in context.
	identityContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Identity is the already-authenticated caller of an operation.
// Guests carry a generated OwnerID and Guest=true; no further user
// management happens inside this system.
type Identity struct {
	OwnerID uuid.UUID
	Email   string
	Admin   bool
	Guest   bool
}

// NewContextWithIdentity returns a new context with the identity attached.
func NewContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the identity from context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey).(*Identity)
	return id
}

// OwnerIDFromContext retrieves the owner ID from context.
// Returns uuid.Nil if no identity is present.
func OwnerIDFromContext(ctx context.Context) uuid.UUID {
	if id := IdentityFromContext(ctx); id != nil {
		return id.OwnerID
	}
	return uuid.Nil
}

// IsAdmin reports whether the context carries an admin identity.
func IsAdmin(ctx context.Context) bool {
	id := IdentityFromContext(ctx)
	return id != nil && id.Admin
}

// RequireIdentity returns the identity or an unauthorized error.
func RequireIdentity(ctx context.Context, op string) (*Identity, error) {
	id := IdentityFromContext(ctx)
	if id == nil || id.OwnerID == uuid.Nil {
		return nil, Unauthorized(op, "authentication required")
	}
	return id, nil
}

// RequireAdmin returns the identity or an error when the caller is not an admin.
func RequireAdmin(ctx context.Context, op string) (*Identity, error) {
	id, err := RequireIdentity(ctx, op)
	if err != nil {
		return nil, err
	}
	if !id.Admin {
		return nil, Forbidden(op, "admin access required")
	}
	return id, nil
}

// NewContextWithRequestID returns a new context carrying the request ID.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns "" if none is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
