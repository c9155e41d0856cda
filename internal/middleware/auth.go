package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/telemetry"
)

// PrincipalVerifier turns an Authorization header into a principal.
type PrincipalVerifier interface {
	VerifyHeader(header string) (*domain.Principal, error)
}

var _ PrincipalVerifier = (*auth.TokenVerifier)(nil)

// Authenticate requires a valid bearer token and stores the principal in the
// request context. Requests without one are rejected with 401.
func Authenticate(verifier PrincipalVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondUnauthorized(w, r, nil)
				return
			}

			principal, err := verifier.VerifyHeader(header)
			if err != nil {
				respondUnauthorized(w, r, err)
				return
			}

			telemetry.SetUser(r.Context(), principal.ID)
			ctx := domain.NewContextWithPrincipal(r.Context(), principal)
			ctx = withPrincipalLogger(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects principals the policy does not grant c. It must
// run after Authenticate.
func RequireCapability(policy *auth.Policy, c auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := domain.PrincipalFromContext(r.Context())
			if principal == nil {
				respondUnauthorized(w, r, nil)
				return
			}
			if !policy.Can(principal, c) {
				respondForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withPrincipalLogger adds the caller to the request logger installed by
// WithRequestLogger, if any.
func withPrincipalLogger(ctx context.Context, p *domain.Principal) context.Context {
	logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger)
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, LoggerContextKey, logger.With(
		slog.String("user_id", p.ID),
		slog.String("role", p.Role),
	))
}
