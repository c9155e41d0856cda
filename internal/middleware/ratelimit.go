package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/ratelimit"
)

// RateLimiter is the decision half of ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Limit() ratelimit.Limit
}

var _ RateLimiter = (*ratelimit.Limiter)(nil)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(r *http.Request) string

// PrincipalOrIP charges authenticated callers by principal id and everybody
// else by client IP.
func PrincipalOrIP(r *http.Request) string {
	if id := domain.PrincipalIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	if ip := GetClientIPFromContext(r.Context()); ip != "" {
		return "ip:" + ip
	}
	return "ip:" + GetClientIP(r)
}

// RateLimit rejects requests over budget with 429 and a Retry-After header.
// A store failure lets the request through.
func RateLimit(limiter RateLimiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = PrincipalOrIP
	}
	retryAfter := strconv.Itoa(int(limiter.Limit().RetryAfter().Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				GetLogger(r.Context()).Warn("rate limit store unavailable, allowing request",
					"key", key,
					"error", err.Error(),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", retryAfter)
				respondTooManyRequests(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
