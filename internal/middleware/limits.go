package middleware

import (
	"context"
	"net/http"
	"time"
)

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// DefaultMaxBodySize covers JSON API requests.
	DefaultMaxBodySize = 64 * KB

	// WebhookMaxBodySize covers gateway event payloads.
	WebhookMaxBodySize = 1 * MB
)

// MaxBodySize rejects declared bodies over maxBytes with 413 and caps the
// reader for undeclared ones.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respondTooLarge(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Common timeout values
const (
	// DefaultTimeout bounds ordinary API requests.
	DefaultTimeout = 30 * time.Second

	// ReconcileTimeout bounds admin reconciliation runs, which pause
	// between gateway calls.
	ReconcileTimeout = 10 * time.Minute
)

// Timeout puts a deadline on the request context. Gateway and database
// calls observe it, so a slow dependency surfaces as an error from the
// handler rather than a hung connection.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
