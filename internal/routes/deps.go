package routes

import (
	"time"

	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/handler/admin"
	"github.com/dukerupert/sponsor/internal/handler/api"
	"github.com/dukerupert/sponsor/internal/handler/webhook"
	"github.com/dukerupert/sponsor/internal/middleware"
)

// AuthDeps is shared by every authenticated route group.
type AuthDeps struct {
	Verifier middleware.PrincipalVerifier
	Policy   *auth.Policy
}

// APIDeps contains dependencies for the sponsor-facing API
type APIDeps struct {
	Auth AuthDeps

	SponsorshipHandler *api.SponsorshipHandler
	PlanHandler        *api.PlanHandler

	// RateLimiter may be nil to disable limiting.
	RateLimiter middleware.RateLimiter

	// Timeout bounds each request; zero uses middleware.DefaultTimeout.
	Timeout time.Duration
}

// WebhookDeps contains dependencies for webhook routes
type WebhookDeps struct {
	BillingHandler *webhook.RazorpayHandler
}

// AdminDeps contains dependencies for staff routes
type AdminDeps struct {
	Auth AuthDeps

	PlanHandler           *api.PlanHandler
	ReconciliationHandler *admin.ReconciliationHandler
}
