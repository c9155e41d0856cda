package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBusinessMetrics_Helpers(t *testing.T) {
	prev := Business
	t.Cleanup(func() { Business = prev })

	InitBusinessMetrics("sponsor_test")

	RecordTransition("pending", "active", "webhook")
	RecordTransition("pending", "active", "webhook")
	RecordPayment("paid", false)
	RecordPayment("paid", true)
	RecordStuckFixed(0)
	RecordStuckFixed(2)
	RecordBeneficiaryRelease("released", 3)
	ObserveGatewayCall("subscription.fetch", "ok", 40*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(Business.SponsorshipTransitions.WithLabelValues("pending", "active", "webhook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.PaymentsRecorded.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.PaymentDuplicates))
	assert.Equal(t, 2.0, testutil.ToFloat64(Business.StuckFixed))
	assert.Equal(t, 3.0, testutil.ToFloat64(Business.BeneficiaryReleases.WithLabelValues("released")))
	assert.Equal(t, 1, testutil.CollectAndCount(Business.GatewayLatency))
}

func TestBusinessMetrics_NilIsNoop(t *testing.T) {
	prev := Business
	Business = nil
	t.Cleanup(func() { Business = prev })

	assert.NotPanics(t, func() {
		RecordTransition("active", "paused", "api")
		RecordWebhook("subscription.charged", "processed", time.Millisecond)
		RecordWebhookReceived("subscription.charged")
		RecordOrphanedEvent("payment.failed")
		RecordReconcileRun("sync_all")
		RecordReconcileItem("synced")
		ObserveGatewayCall("plan.create", "error", time.Second)
	})
}

func TestSentryDisabled(t *testing.T) {
	assert.False(t, IsEnabled())
	assert.NotPanics(t, func() {
		CaptureError(errors.New("boom"))
		CaptureErrorWithTags(errors.New("boom"), map[string]string{"sponsorship_id": "sp_1"}, nil)
		AddBreadcrumb("billing", "ignored", nil)
	})

	called := false
	h := SentryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
