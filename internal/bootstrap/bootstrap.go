// Package bootstrap builds the process-wide dependencies shared by the
// server and the reconcile command.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/sponsor/internal"
	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/notify"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/ratelimit"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
)

// App holds the wired services. Close releases every connection it opened.
type App struct {
	Pool     *pgxpool.Pool
	Repo     *repository.Queries
	Gateway  billing.Gateway
	Notifier notify.Notifier
	Policy   *auth.Policy

	Plans          *service.PlanService
	Sponsorships   *service.SponsorshipService
	Ledger         *service.LedgerService
	Webhooks       *service.WebhookService
	Reconciliation *service.ReconciliationService

	closers []func()
}

// Open connects to PostgreSQL, applies pending migrations and wires the
// services.
func Open(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (*App, error) {
	app := &App{Policy: auth.DefaultPolicy()}

	if err := migrate(cfg.DatabaseUrl, logger); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	app.Pool = pool
	app.closers = append(app.closers, pool.Close)

	if err := pool.Ping(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	app.Gateway, err = NewGateway(cfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	notifier, closeNotifier, err := NewNotifier(cfg.NATS, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Notifier = notifier
	app.closers = append(app.closers, closeNotifier)

	app.Repo = repository.New(pool)
	app.wire(cfg, logger)
	return app, nil
}

func (a *App) wire(cfg *internal.Config, logger *slog.Logger) {
	beneficiaries := postgres.NewBeneficiaryStore(a.Repo)

	a.Plans = service.NewPlanService(a.Repo, logger)
	a.Sponsorships = service.NewSponsorshipService(
		a.Repo,
		a.Gateway,
		beneficiaries,
		a.Plans,
		a.Notifier,
		a.Policy,
		logger,
		cfg.Razorpay.Currency,
	)
	a.Ledger = service.NewLedgerService(a.Repo, a.Sponsorships, a.Notifier, logger, cfg.Reconciliation.FailureThreshold)
	a.Webhooks = service.NewWebhookService(a.Repo, a.Gateway, a.Sponsorships, a.Ledger, logger)
	a.Reconciliation = service.NewReconciliationService(
		a.Repo,
		a.Gateway,
		a.Sponsorships,
		beneficiaries,
		logger,
		cfg.Reconciliation.SyncDelay,
		cfg.Reconciliation.StuckAfter,
	)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// migrate runs goose over a short-lived database/sql handle.
func migrate(databaseURL string, logger *slog.Logger) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")
	return nil
}

// NewGateway selects the billing gateway named by BILLING_PROVIDER.
func NewGateway(cfg *internal.Config, logger *slog.Logger) (billing.Gateway, error) {
	switch cfg.BillingProvider {
	case "razorpay":
		rzp := billing.RazorpayConfig{
			KeyID:         cfg.Razorpay.KeyID,
			KeySecret:     cfg.Razorpay.KeySecret,
			WebhookSecret: cfg.Razorpay.WebhookSecret,
			BaseURL:       cfg.Razorpay.BaseURL,
			Currency:      cfg.Razorpay.Currency,
			TotalCount:    cfg.Razorpay.TotalCount,
			Timeout:       cfg.Razorpay.Timeout,
		}
		gateway, err := billing.NewRazorpayProvider(rzp)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Razorpay gateway: %w", err)
		}
		logger.Info("Razorpay gateway initialized", "test_mode", rzp.IsTestMode())
		return gateway, nil
	case "mock":
		gateway := billing.NewMockGateway()
		if cfg.Razorpay.KeySecret != "" {
			gateway.KeySecret = cfg.Razorpay.KeySecret
		}
		if cfg.Razorpay.WebhookSecret != "" {
			gateway.WebhookSecret = cfg.Razorpay.WebhookSecret
		}
		logger.Warn("Using mock billing gateway; no real charges will be made")
		return gateway, nil
	default:
		return nil, fmt.Errorf("unknown billing provider %q", cfg.BillingProvider)
	}
}

// NewNotifier publishes to NATS when a URL is configured and logs
// notifications otherwise. The returned func drains the connection.
func NewNotifier(cfg internal.NATSConfig, logger *slog.Logger) (notify.Notifier, func(), error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not set; notifications are logged only")
		return notify.NewLogNotifier(logger), func() {}, nil
	}

	nc, err := notify.Connect(cfg.URL, "sponsor", logger)
	if err != nil {
		return nil, nil, fmt.Errorf("notifier: %w", err)
	}
	logger.Info("Connected to NATS", "url", nc.ConnectedUrl())

	drain := func() {
		if err := nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			logger.Warn("nats drain failed", "error", err.Error())
		}
	}
	return notify.NewNATSNotifier(nc, cfg.SubjectPrefix, logger), drain, nil
}

// NewRateLimiter builds the API limiter over the configured store. The
// returned func stops the store's background work.
func NewRateLimiter(ctx context.Context, cfg internal.RateLimitConfig, logger *slog.Logger) (*ratelimit.Limiter, func(), error) {
	limit := ratelimit.Limit{Rate: cfg.RequestsPerSecond, Burst: cfg.Burst}

	switch cfg.Store {
	case "redis":
		client, err := ratelimit.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("rate limit store: %w", err)
		}
		logger.Info("Rate limiting backed by Redis")
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", "error", err.Error())
			}
		}
		return ratelimit.New(ratelimit.NewRedisStore(client), limit, "api"), closeFn, nil
	default:
		store := ratelimit.NewMemoryStore(0)
		return ratelimit.New(store, limit, "api"), func() { _ = store.Close() }, nil
	}
}
