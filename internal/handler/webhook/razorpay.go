package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/handler"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/service"
)

// Razorpay delivery headers.
const (
	SignatureHeader = "X-Razorpay-Signature"
	EventIDHeader   = "X-Razorpay-Event-Id"
)

// Ingester is the part of service.WebhookService the handler uses.
type Ingester interface {
	Ingest(ctx context.Context, body []byte, signature, eventIDHeader string) (*service.IngestResult, error)
}

var _ Ingester = (*service.WebhookService)(nil)

// RazorpayHandler receives gateway webhook deliveries.
type RazorpayHandler struct {
	ingester Ingester
	logger   *slog.Logger
}

// NewRazorpayHandler creates a new Razorpay webhook handler
func NewRazorpayHandler(ingester Ingester, logger *slog.Logger) *RazorpayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RazorpayHandler{ingester: ingester, logger: logger}
}

type ackResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HandleWebhook handles POST /webhooks/billing
//
// Response codes:
//   - 200 received: the event was applied, or is a duplicate, orphaned,
//     unknown or malformed event that retrying cannot fix.
//   - 200 rejected: the signature is missing or did not verify. Nothing was
//     recorded, and a redelivery would be rejected the same way.
//   - 500: a transient failure. The gateway redelivers and the event is
//     retried.
func (h *RazorpayHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context(), h.logger)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handler.ErrorResponse(w, r, domain.Errorf(domain.ETOOLARGE, "webhook.read", "Request body too large"))
			return
		}
		handler.ErrorResponse(w, r, domain.Invalid("webhook.read", "Error reading request body"))
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		h.reject(w, logger, "missing_signature")
		return
	}

	result, err := h.ingester.Ingest(r.Context(), body, signature, r.Header.Get(EventIDHeader))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidWebhookSignature) {
			h.reject(w, logger, "invalid_signature")
			return
		}
		handler.ErrorResponse(w, r, domain.Internal(err, "webhook.ingest", "webhook processing failed"))
		return
	}

	logger.Info("webhook acknowledged",
		slog.String("event_id", result.EventID),
		slog.String("event_type", result.EventType),
		slog.String("outcome", result.Outcome),
	)
	handler.JSON(w, http.StatusOK, ackResponse{
		Received: true,
		EventID:  result.EventID,
		Outcome:  result.Outcome,
	})
}

// reject acknowledges a delivery that failed authentication.
func (h *RazorpayHandler) reject(w http.ResponseWriter, logger *slog.Logger, reason string) {
	logger.Warn("webhook rejected", slog.String("reason", reason))
	handler.JSON(w, http.StatusOK, ackResponse{
		Received: false,
		Outcome:  service.OutcomeRejected,
		Error:    reason,
	})
}
