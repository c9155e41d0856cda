package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/sponsor/internal"
	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/bootstrap"
	"github.com/dukerupert/sponsor/internal/handler/admin"
	"github.com/dukerupert/sponsor/internal/handler/api"
	"github.com/dukerupert/sponsor/internal/handler/webhook"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/router"
	"github.com/dukerupert/sponsor/internal/routes"
	"github.com/dukerupert/sponsor/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Env,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Database, gateway, notifier and services
	logger.Info("Connecting to database...")
	app, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	limiter, closeLimiter, err := bootstrap.NewRateLimiter(ctx, cfg.RateLimit, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	authDeps := routes.AuthDeps{
		Verifier: auth.NewTokenVerifier(cfg.JWTSecret),
		Policy:   app.Policy,
	}
	planHandler := api.NewPlanHandler(app.Plans, logger)

	apiDeps := routes.APIDeps{
		Auth:               authDeps,
		SponsorshipHandler: api.NewSponsorshipHandler(app.Sponsorships, logger),
		PlanHandler:        planHandler,
		RateLimiter:        limiter,
	}
	webhookDeps := routes.WebhookDeps{
		BillingHandler: webhook.NewRazorpayHandler(app.Webhooks, logger),
	}
	adminDeps := routes.AdminDeps{
		Auth:                  authDeps,
		PlanHandler:           planHandler,
		ReconciliationHandler: admin.NewReconciliationHandler(app.Reconciliation, logger),
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("sponsor", nil)
	telemetry.InitBusinessMetrics("sponsor")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.WithRequestLogger(logger),
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
	)

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := app.Pool.Ping(req.Context()); err != nil {
			middleware.GetLogger(req.Context(), logger).Warn("health check failed", "error", err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, apiDeps)
	routes.RegisterWebhookRoutes(r, webhookDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	var h http.Handler = r
	if len(cfg.AllowedOrigins) > 0 {
		h = router.CORS(cfg.AllowedOrigins)(r)
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "billing_provider", cfg.BillingProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
