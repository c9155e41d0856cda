package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/notify"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	sponsorAlice = &domain.Principal{ID: "user_alice", Role: domain.RoleSponsor}
	sponsorBob   = &domain.Principal{ID: "user_bob", Role: domain.RoleSponsor}
	adminCarol   = &domain.Principal{ID: "user_carol", Role: domain.RoleAdmin}
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Kind)
	}
	return out
}

// harness wires every service over one memStore and a MockGateway.
type harness struct {
	now      time.Time
	store    *memStore
	gateway  *billing.MockGateway
	notifier *recordingNotifier

	plans        *PlanService
	sponsorships *SponsorshipService
	ledger       *LedgerService
	webhooks     *WebhookService
	reconcile    *ReconciliationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }

	h.store = newMemStore(clock)
	h.gateway = billing.NewMockGateway()
	h.notifier = &recordingNotifier{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	beneficiaries := postgres.NewBeneficiaryStore(h.store)

	h.plans = NewPlanService(h.store, logger)
	h.sponsorships = NewSponsorshipService(h.store, h.gateway, beneficiaries, h.plans, h.notifier, auth.DefaultPolicy(), logger, "INR")
	h.sponsorships.now = clock
	h.ledger = NewLedgerService(h.store, h.sponsorships, h.notifier, logger, 3)
	h.ledger.now = clock
	h.webhooks = NewWebhookService(h.store, h.gateway, h.sponsorships, h.ledger, logger)
	h.reconcile = NewReconciliationService(h.store, h.gateway, h.sponsorships, beneficiaries, logger, 0, time.Hour)
	h.reconcile.now = clock
	h.reconcile.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return h
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// create starts a monthly sponsorship of 500.00 for a new beneficiary.
func (h *harness) create(t *testing.T, principal *domain.Principal) (*CreateSponsorshipResult, uuid.UUID) {
	t.Helper()
	beneficiaryID := h.store.addBeneficiary("Asha")
	res, err := h.sponsorships.CreateSponsorship(context.Background(), principal, CreateSponsorshipParams{
		BeneficiaryID: beneficiaryID.String(),
		PlanType:      "monthly",
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	return res, beneficiaryID
}

// deliver signs and ingests a webhook payload.
func (h *harness) deliver(t *testing.T, eventID string, payload any) (*IngestResult, error) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return h.webhooks.Ingest(context.Background(), body, billing.Sign(h.gateway.WebhookSecret, body), eventID)
}

func subscriptionPayload(event, subscriptionID, status string, chargeAt int64) map[string]any {
	return map[string]any{
		"entity":     "event",
		"event":      event,
		"created_at": 1772359200,
		"payload": map[string]any{
			"subscription": map[string]any{
				"entity": map[string]any{
					"id":        subscriptionID,
					"status":    status,
					"charge_at": chargeAt,
					"notes":     []any{},
				},
			},
		},
	}
}

func chargedPayload(subscriptionID, paymentID string, amount int64, chargeAt int64) map[string]any {
	p := subscriptionPayload(billing.EventSubscriptionCharged, subscriptionID, "active", chargeAt)
	p["payload"].(map[string]any)["payment"] = map[string]any{
		"entity": map[string]any{
			"id":         paymentID,
			"amount":     amount,
			"currency":   "INR",
			"status":     "captured",
			"method":     "upi",
			"created_at": 1772359200,
			"notes":      []any{},
		},
	}
	return p
}

func paymentFailedPayload(subscriptionID, paymentID string) map[string]any {
	return map[string]any{
		"entity": "event",
		"event":  billing.EventPaymentFailed,
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"id":                paymentID,
					"amount":            50000,
					"currency":          "INR",
					"status":            "failed",
					"method":            "card",
					"subscription_id":   subscriptionID,
					"error_code":        "BAD_REQUEST_ERROR",
					"error_description": "Card declined",
					"notes":             []any{},
				},
			},
		},
	}
}
