package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler/admin"
	"github.com/dukerupert/sponsor/internal/handler/api"
	"github.com/dukerupert/sponsor/internal/handler/webhook"
	"github.com/dukerupert/sponsor/internal/ratelimit"
	"github.com/dukerupert/sponsor/internal/router"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlans struct{}

func (stubPlans) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return []domain.Plan{{PlanType: "monthly"}}, nil
}

func (stubPlans) UpsertPlan(ctx context.Context, plan domain.Plan) (*domain.Plan, error) {
	return &plan, nil
}

type stubReconciler struct{}

func (stubReconciler) SyncSubscriptionStatus(ctx context.Context, id uuid.UUID) (*service.SyncResult, error) {
	return &service.SyncResult{SponsorshipID: id}, nil
}

func (stubReconciler) SyncAllSponsorships(ctx context.Context) (*service.SyncSummary, error) {
	return &service.SyncSummary{}, nil
}

func (stubReconciler) FixStuckSponsorships(ctx context.Context, sponsorID *string) (*service.FixResult, error) {
	return &service.FixResult{}, nil
}

type stubIngester struct{}

func (stubIngester) Ingest(ctx context.Context, body []byte, signature, eventID string) (*service.IngestResult, error) {
	return &service.IngestResult{EventID: eventID, Outcome: service.OutcomeProcessed}, nil
}

const testSecret = "routes-test-secret"

func newTestRouter(t *testing.T, limiter *ratelimit.Limiter) *router.Router {
	t.Helper()

	authDeps := AuthDeps{
		Verifier: auth.NewTokenVerifier(testSecret),
		Policy:   auth.DefaultPolicy(),
	}
	plans := api.NewPlanHandler(stubPlans{}, nil)

	r := router.New()
	apiDeps := APIDeps{
		Auth:               authDeps,
		SponsorshipHandler: api.NewSponsorshipHandler(nil, nil),
		PlanHandler:        plans,
	}
	if limiter != nil {
		apiDeps.RateLimiter = limiter
	}
	RegisterAPIRoutes(r, apiDeps)
	RegisterWebhookRoutes(r, WebhookDeps{
		BillingHandler: webhook.NewRazorpayHandler(stubIngester{}, nil),
	})
	RegisterAdminRoutes(r, AdminDeps{
		Auth:                  authDeps,
		PlanHandler:           plans,
		ReconciliationHandler: admin.NewReconciliationHandler(stubReconciler{}, nil),
	})
	return r
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.NewTokenVerifier(testSecret).Issue(domain.Principal{ID: "user_" + role, Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes_Access(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   string
		body   string
		want   int
	}{
		{name: "plans need a token", method: http.MethodGet, path: "/plans", want: http.StatusUnauthorized},
		{name: "sponsor lists plans", method: http.MethodGet, path: "/plans", role: domain.RoleSponsor, want: http.StatusOK},
		{name: "sponsor cannot upsert plans", method: http.MethodPut, path: "/admin/plans/monthly", role: domain.RoleSponsor, body: `{}`, want: http.StatusForbidden},
		{name: "admin upserts plans", method: http.MethodPut, path: "/admin/plans/monthly", role: domain.RoleAdmin, body: `{}`, want: http.StatusOK},
		{name: "sponsor cannot sync", method: http.MethodPost, path: "/admin/sponsorships/sync", role: domain.RoleSponsor, want: http.StatusForbidden},
		{name: "moderator syncs", method: http.MethodPost, path: "/admin/sponsorships/sync", role: domain.RoleModerator, want: http.StatusOK},
		{name: "admin fixes stuck", method: http.MethodGet, path: "/admin/sponsorships/sync?sponsor_id=user_1", role: domain.RoleAdmin, want: http.StatusOK},
		{name: "admin syncs one", method: http.MethodPost, path: "/admin/sponsorships/" + uuid.NewString() + "/sync", role: domain.RoleAdmin, want: http.StatusOK},
		{name: "unknown role", method: http.MethodGet, path: "/plans", role: "guest", want: http.StatusForbidden},
	}

	r := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, tt.role))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRoutes_WebhookSkipsAuthentication(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", strings.NewReader(`{}`))
	req.Header.Set(webhook.SignatureHeader, "sig")
	req.Header.Set(webhook.EventIDHeader, "evt_1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "evt_1")
}

func TestRoutes_APIRateLimited(t *testing.T) {
	store := ratelimit.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	limiter := ratelimit.New(store, ratelimit.Limit{Rate: 0.001, Burst: 2}, "api")
	r := newTestRouter(t, limiter)

	token := bearer(t, domain.RoleSponsor)
	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/plans", nil)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
