package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for sponsorship-level observability.
type BusinessMetrics struct {
	// Sponsorship lifecycle
	SponsorshipsCreated    *prometheus.CounterVec
	SponsorshipTransitions *prometheus.CounterVec

	// Ledger
	PaymentsRecorded  *prometheus.CounterVec
	PaymentDuplicates prometheus.Counter
	OrphanedEvents    *prometheus.CounterVec

	// Webhooks
	WebhookReceived  *prometheus.CounterVec
	WebhookProcessed *prometheus.CounterVec
	WebhookLatency   *prometheus.HistogramVec

	// Reconciliation
	ReconcileRuns       *prometheus.CounterVec
	ReconcileItems      *prometheus.CounterVec
	StuckFixed          prometheus.Counter
	BeneficiaryReleases *prometheus.CounterVec

	// External API performance
	GatewayLatency *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "sponsor"
	}

	subsystem := "business"

	return &BusinessMetrics{
		// =======================================================================
		// Sponsorship Lifecycle
		// =======================================================================
		SponsorshipsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sponsorships_created_total",
				Help:      "Total sponsorships created",
			},
			[]string{"plan_type"},
		),
		SponsorshipTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sponsorship_transitions_total",
				Help:      "Sponsorship status transitions applied",
			},
			[]string{"from", "to", "source"}, // source: sponsor, webhook, reconcile, ledger
		),

		// =======================================================================
		// Ledger
		// =======================================================================
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_recorded_total",
				Help:      "Ledger rows inserted",
			},
			[]string{"status"},
		),
		PaymentDuplicates: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_duplicates_total",
				Help:      "Redelivered payments ignored by the ledger",
			},
		),
		OrphanedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orphaned_events_total",
				Help:      "Gateway events referencing unknown subscriptions",
			},
			[]string{"event_type"},
		),

		// =======================================================================
		// Webhooks
		// =======================================================================
		WebhookReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_received_total",
				Help:      "Total webhooks received",
			},
			[]string{"provider", "event_type"},
		),
		WebhookProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_processed_total",
				Help:      "Webhooks by processing outcome",
			},
			[]string{"provider", "event_type", "outcome"}, // outcome: applied, duplicate, orphaned, ignored, failed, rejected
		),
		WebhookLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhook_processing_seconds",
				Help:      "Webhook processing latency",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"provider", "event_type"},
		),

		// =======================================================================
		// Reconciliation
		// =======================================================================
		ReconcileRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reconcile_runs_total",
				Help:      "Reconciliation runs by kind",
			},
			[]string{"kind"}, // kind: sync_all, sync_one, fix_stuck
		),
		ReconcileItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reconcile_items_total",
				Help:      "Sponsorships visited by reconciliation",
			},
			[]string{"outcome"}, // outcome: synced, changed, error
		),
		StuckFixed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stuck_sponsorships_fixed_total",
				Help:      "Abandoned pending sponsorships cancelled",
			},
		),
		BeneficiaryReleases: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "beneficiary_releases_total",
				Help:      "Beneficiary sponsorship flags cleared",
			},
			[]string{"outcome"}, // outcome: released, failed, repaired
		),

		// =======================================================================
		// External APIs
		// =======================================================================
		GatewayLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_request_seconds",
				Help:      "Billing gateway call latency",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "outcome"},
		),
	}
}

// Business is the process-wide metrics instance. Nil until InitBusinessMetrics
// is called; every helper below tolerates that.
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}

// ObserveGatewayCall records the latency of one billing gateway request.
func ObserveGatewayCall(operation, outcome string, d time.Duration) {
	if Business == nil {
		return
	}
	Business.GatewayLatency.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// RecordTransition counts an applied sponsorship status change.
func RecordTransition(from, to, source string) {
	if Business == nil {
		return
	}
	Business.SponsorshipTransitions.WithLabelValues(from, to, source).Inc()
}

// RecordWebhook counts a webhook outcome and its latency.
func RecordWebhook(eventType, outcome string, d time.Duration) {
	if Business == nil {
		return
	}
	Business.WebhookProcessed.WithLabelValues("razorpay", eventType, outcome).Inc()
	Business.WebhookLatency.WithLabelValues("razorpay", eventType).Observe(d.Seconds())
}

// RecordWebhookReceived counts an authenticated webhook delivery.
func RecordWebhookReceived(eventType string) {
	if Business == nil {
		return
	}
	Business.WebhookReceived.WithLabelValues("razorpay", eventType).Inc()
}

// RecordSponsorshipCreated counts a sponsorship that reached the gateway.
func RecordSponsorshipCreated(planType string) {
	if Business == nil {
		return
	}
	Business.SponsorshipsCreated.WithLabelValues(planType).Inc()
}

// RecordPayment counts a ledger write. Duplicates are counted separately.
func RecordPayment(status string, duplicate bool) {
	if Business == nil {
		return
	}
	if duplicate {
		Business.PaymentDuplicates.Inc()
		return
	}
	Business.PaymentsRecorded.WithLabelValues(status).Inc()
}

// RecordOrphanedEvent counts a gateway event with no local sponsorship.
func RecordOrphanedEvent(eventType string) {
	if Business == nil {
		return
	}
	Business.OrphanedEvents.WithLabelValues(eventType).Inc()
}

// RecordReconcileRun counts a reconciliation run of the given kind.
func RecordReconcileRun(kind string) {
	if Business == nil {
		return
	}
	Business.ReconcileRuns.WithLabelValues(kind).Inc()
}

// RecordReconcileItem counts one sponsorship visited by reconciliation.
func RecordReconcileItem(outcome string) {
	if Business == nil {
		return
	}
	Business.ReconcileItems.WithLabelValues(outcome).Inc()
}

// RecordStuckFixed counts stuck pending sponsorships cancelled.
func RecordStuckFixed(n int) {
	if Business == nil || n == 0 {
		return
	}
	Business.StuckFixed.Add(float64(n))
}

// RecordBeneficiaryRelease counts beneficiary release attempts by outcome.
func RecordBeneficiaryRelease(outcome string, n int) {
	if Business == nil || n == 0 {
		return
	}
	Business.BeneficiaryReleases.WithLabelValues(outcome).Add(float64(n))
}
