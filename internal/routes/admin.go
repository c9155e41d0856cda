package routes

import (
	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/router"
)

// RegisterAdminRoutes registers staff routes under /admin.
// All routes require a principal holding the route's capability.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Authenticate(deps.Auth.Verifier),
	)
	can := func(c auth.Capability) router.Middleware {
		return middleware.RequireCapability(deps.Auth.Policy, c)
	}

	// Plan catalog
	admin.Put("/admin/plans/{planType}", deps.PlanHandler.Upsert,
		middleware.Timeout(middleware.DefaultTimeout), can(auth.CapPlanManage))

	// Reconciliation. A full sync pauses between gateway calls, so it gets
	// the longer deadline.
	admin.Post("/admin/sponsorships/sync", deps.ReconciliationHandler.SyncAll,
		middleware.Timeout(middleware.ReconcileTimeout), can(auth.CapSponsorshipReconcile))
	admin.Get("/admin/sponsorships/sync", deps.ReconciliationHandler.FixStuck,
		middleware.Timeout(middleware.ReconcileTimeout), can(auth.CapSponsorshipReconcile))
	admin.Post("/admin/sponsorships/{id}/sync", deps.ReconciliationHandler.SyncOne,
		middleware.Timeout(middleware.DefaultTimeout), can(auth.CapSponsorshipReconcile))
}
