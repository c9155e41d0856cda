package routes

import (
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/router"
)

// RegisterWebhookRoutes registers all webhook routes.
//
// Note: Webhook routes do NOT have authentication middleware.
// The handler verifies the gateway's HMAC signature over the raw body.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Post("/webhooks/billing", deps.BillingHandler.HandleWebhook,
		middleware.Timeout(middleware.DefaultTimeout),
		middleware.MaxBodySize(middleware.WebhookMaxBodySize),
	)
}
