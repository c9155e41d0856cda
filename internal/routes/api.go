package routes

import (
	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/router"
)

// RegisterAPIRoutes registers the sponsor-facing JSON API.
//
// Every route is authenticated and rate limited per principal. Routes that
// act on one sponsorship only need authentication here; the service checks
// ownership against the sponsorship itself.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = middleware.DefaultTimeout
	}

	chain := []router.Middleware{
		middleware.Timeout(timeout),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Authenticate(deps.Auth.Verifier),
	}
	if deps.RateLimiter != nil {
		chain = append(chain, middleware.RateLimit(deps.RateLimiter, middleware.PrincipalOrIP))
	}
	api := r.Group(chain...)
	can := func(c auth.Capability) router.Middleware {
		return middleware.RequireCapability(deps.Auth.Policy, c)
	}

	// Plans
	api.Get("/plans", deps.PlanHandler.List, can(auth.CapPlanRead))

	// Sponsorships
	api.Post("/sponsorships", deps.SponsorshipHandler.Create, can(auth.CapSponsorshipCreate))
	api.Get("/sponsorships", deps.SponsorshipHandler.List, can(auth.CapSponsorshipManageOwn))
	api.Get("/sponsorships/{id}", deps.SponsorshipHandler.Get)
	api.Post("/sponsorships/{id}/pause", deps.SponsorshipHandler.Pause)
	api.Post("/sponsorships/{id}/resume", deps.SponsorshipHandler.Resume)
	api.Post("/sponsorships/{id}/cancel", deps.SponsorshipHandler.Cancel)
	api.Post("/sponsorships/{id}/verify", deps.SponsorshipHandler.Verify)
}
