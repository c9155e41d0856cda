package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/go-chi/cors"
)

// Recovery recovers from panics, logs the stack and answers with a JSON 500.
// Sentry reporting happens in telemetry.SentryMiddleware, which must run
// inside this one.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					middleware.GetLogger(r.Context(), logger).Error("panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					handler.JSON(w, http.StatusInternalServerError, handler.ErrorBody{Error: handler.ErrorDetail{
						Code:    domain.EINTERNAL,
						Message: domain.ErrorMessage(domain.Internal(nil, "http.recover", "unhandled panic")),
					}})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS lets the listed browser origins call the API. "*" allows any origin.
// Preflight requests are answered here and never reach the handler.
func CORS(allowedOrigins []string) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         600,
	})
}
