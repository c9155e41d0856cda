package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	calls     int
	body      []byte
	signature string
	eventID   string
	result    *service.IngestResult
	err       error
}

func (f *fakeIngester) Ingest(ctx context.Context, body []byte, signature, eventIDHeader string) (*service.IngestResult, error) {
	f.calls++
	f.body = body
	f.signature = signature
	f.eventID = eventIDHeader
	return f.result, f.err
}

func webhookRequest(body, signature, eventID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	if eventID != "" {
		req.Header.Set(EventIDHeader, eventID)
	}
	return req
}

func TestHandleWebhook_Acknowledges(t *testing.T) {
	outcomes := []string{
		service.OutcomeProcessed,
		service.OutcomeDuplicate,
		service.OutcomeOrphaned,
		service.OutcomeIgnored,
		service.OutcomeMalformed,
	}

	for _, outcome := range outcomes {
		t.Run(outcome, func(t *testing.T) {
			ing := &fakeIngester{result: &service.IngestResult{
				EventID:   "evt_1",
				EventType: billing.EventSubscriptionCharged,
				Outcome:   outcome,
			}}
			h := NewRazorpayHandler(ing, nil)

			rec := httptest.NewRecorder()
			h.HandleWebhook(rec, webhookRequest(`{"event":"subscription.charged"}`, "sig", "evt_1"))

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, true, body["received"])
			assert.Equal(t, "evt_1", body["event_id"])
			assert.Equal(t, outcome, body["outcome"])

			assert.Equal(t, `{"event":"subscription.charged"}`, string(ing.body))
			assert.Equal(t, "sig", ing.signature)
			assert.Equal(t, "evt_1", ing.eventID)
		})
	}
}

func TestHandleWebhook_RejectsUnsignedDeliveries(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		err       error
		wantCalls int
		wantError string
	}{
		{name: "missing signature", wantError: "missing_signature"},
		{
			name:      "invalid signature",
			signature: "forged",
			err:       fmt.Errorf("webhook.verify: %w", billing.ErrInvalidWebhookSignature),
			wantCalls: 1,
			wantError: "invalid_signature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &fakeIngester{err: tt.err}
			h := NewRazorpayHandler(ing, nil)

			rec := httptest.NewRecorder()
			h.HandleWebhook(rec, webhookRequest(`{}`, tt.signature, "evt_1"))

			// Acknowledged so the gateway stops redelivering a body that can never verify.
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCalls, ing.calls)

			var body ackResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Received)
			assert.Equal(t, service.OutcomeRejected, body.Outcome)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestHandleWebhook_TransientFailureAsksForRedelivery(t *testing.T) {
	ing := &fakeIngester{err: errors.New("connection refused")}
	h := NewRazorpayHandler(ing, nil)

	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, webhookRequest(`{}`, "sig", "evt_1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHandleWebhook_BodyTooLarge(t *testing.T) {
	ing := &fakeIngester{}
	h := NewRazorpayHandler(ing, nil)

	rec := httptest.NewRecorder()
	middleware.MaxBodySize(16)(http.HandlerFunc(h.HandleWebhook)).
		ServeHTTP(rec, webhookRequest(`{"event":"`+strings.Repeat("x", 64)+`"}`, "sig", ""))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, ing.calls)
}
