package middleware

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultMaxBodySize bounds JSON request bodies. The API accepts no
	// uploads, so 1MB is generous.
	DefaultMaxBodySize = 1 << 20

	// DefaultTimeout is the per-request processing deadline.
	DefaultTimeout = 30 * time.Second
)

// MaxBodySize rejects oversized request bodies with 413 and caps reads on
// the rest.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout attaches a deadline to the request context. Handlers observe it
// through their context; database and gateway calls already take ctx.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
