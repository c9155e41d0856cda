package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/dukerupert/sponsor/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
)

const webhookProvider = "razorpay"

// Webhook outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeOrphaned  = "orphaned"
	OutcomeIgnored   = "ignored"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// IngestResult describes how a delivered event was handled.
type IngestResult struct {
	EventID   string
	EventType string
	Outcome   string
}

// WebhookService authenticates, deduplicates and applies gateway events.
type WebhookService struct {
	repo         repository.Querier
	gateway      billing.Gateway
	sponsorships *SponsorshipService
	ledger       *LedgerService
	logger       *slog.Logger
}

// NewWebhookService creates a new WebhookService instance.
func NewWebhookService(
	repo repository.Querier,
	gateway billing.Gateway,
	sponsorships *SponsorshipService,
	ledger *LedgerService,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		repo:         repo,
		gateway:      gateway,
		sponsorships: sponsorships,
		ledger:       ledger,
		logger:       logger,
	}
}

// Ingest handles one webhook delivery.
//
// Returns billing.ErrInvalidWebhookSignature for unauthenticated bodies.
// Any other error is transient: the event is left unprocessed so a
// redelivery retries it. Duplicate, orphaned, unknown and malformed events
// are not errors.
func (s *WebhookService) Ingest(ctx context.Context, body []byte, signature, eventIDHeader string) (*IngestResult, error) {
	start := time.Now()

	if !s.gateway.VerifyWebhookSignature(body, signature) {
		s.logger.Warn("webhook signature rejected",
			slog.String("event_id", eventIDHeader),
			slog.Int("body_size", len(body)),
		)
		telemetry.RecordWebhook("unknown", OutcomeRejected, time.Since(start))
		return nil, billing.ErrInvalidWebhookSignature
	}

	eventID := billing.EventID(eventIDHeader, body)
	ev, parseErr := billing.ParseEvent(eventID, body)

	result := &IngestResult{EventID: eventID, EventType: "unknown"}
	if parseErr == nil {
		result.EventType = ev.Meta().Name
	}
	telemetry.RecordWebhookReceived(result.EventType)

	logger := s.logger.With(
		slog.String("event_id", eventID),
		slog.String("event_type", result.EventType),
	)

	rec, err := s.repo.UpsertWebhookEvent(ctx, repository.UpsertWebhookEventParams{
		Provider:        webhookProvider,
		ProviderEventID: eventID,
		EventType:       result.EventType,
		Payload:         storablePayload(body),
	})
	if err != nil {
		telemetry.RecordWebhook(result.EventType, OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	if rec.ProcessedAt.Valid {
		logger.Debug("duplicate webhook event", slog.Int("attempts", int(rec.Attempts)))
		return s.finish(result, OutcomeDuplicate, start), nil
	}

	if parseErr != nil {
		logger.Warn("malformed webhook event", slog.String("error", parseErr.Error()))
		s.markProcessed(ctx, logger, rec.ID, parseErr.Error())
		return s.finish(result, OutcomeMalformed, start), nil
	}

	outcome, err := s.dispatch(ctx, logger, ev)
	if err != nil {
		var orphan *domain.OrphanedEventError
		if errors.As(err, &orphan) {
			if orphan.EventID == "" {
				orphan.EventID = eventID
			}
			logger.Warn("orphaned webhook event",
				slog.String("subscription_id", orphan.SubscriptionID),
				slog.String("payment_id", orphan.PaymentID),
			)
			telemetry.RecordOrphanedEvent(result.EventType)
			telemetry.CaptureError(orphan, map[string]interface{}{
				"event_id":        eventID,
				"event_type":      result.EventType,
				"subscription_id": orphan.SubscriptionID,
			})
			s.markProcessed(ctx, logger, rec.ID, orphan.Error())
			return s.finish(result, OutcomeOrphaned, start), nil
		}

		logger.Error("webhook processing failed", slog.String("error", err.Error()))
		if markErr := s.repo.MarkWebhookEventFailed(ctx, repository.MarkWebhookEventFailedParams{
			ID:              rec.ID,
			ProcessingError: postgres.Text(err.Error()),
		}); markErr != nil {
			logger.Error("failed to mark webhook event failed", slog.String("error", markErr.Error()))
		}
		telemetry.RecordWebhook(result.EventType, OutcomeFailed, time.Since(start))
		return nil, fmt.Errorf("failed to process %s: %w", result.EventType, err)
	}

	s.markProcessed(ctx, logger, rec.ID, "")
	return s.finish(result, outcome, start), nil
}

func (s *WebhookService) finish(result *IngestResult, outcome string, start time.Time) *IngestResult {
	result.Outcome = outcome
	telemetry.RecordWebhook(result.EventType, outcome, time.Since(start))
	return result
}

// markProcessed closes the event. A failure here only means a redelivery
// will be applied again, which is idempotent.
func (s *WebhookService) markProcessed(ctx context.Context, logger *slog.Logger, id pgtype.UUID, processingErr string) {
	if err := s.repo.MarkWebhookEventProcessed(ctx, repository.MarkWebhookEventProcessedParams{
		ID:              id,
		ProcessingError: postgres.Text(processingErr),
	}); err != nil {
		logger.Error("failed to mark webhook event processed", slog.String("error", err.Error()))
	}
}

func (s *WebhookService) dispatch(ctx context.Context, logger *slog.Logger, ev billing.Event) (string, error) {
	switch e := ev.(type) {
	case billing.SubscriptionStatusEvent:
		return s.applySubscription(ctx, logger, e.Subscription.Snapshot())

	case billing.SubscriptionCharged:
		snap := e.Subscription.Snapshot()
		pe := paymentEvent(e.ID, snap.ID, e.Payment)
		pe.Status = domain.PaymentPaid
		pe.Snapshot = snap
		if _, _, err := s.ledger.RecordPayment(ctx, pe); err != nil {
			return "", err
		}
		return OutcomeProcessed, nil

	case billing.PaymentFailed:
		subID := e.Payment.SubscriptionRef()
		if subID == "" && e.Subscription != nil {
			subID = e.Subscription.ID
		}
		if subID == "" {
			logger.Info("payment failure without subscription ignored", slog.String("payment_id", e.Payment.ID))
			return OutcomeIgnored, nil
		}
		pe := paymentEvent(e.ID, subID, e.Payment)
		pe.Status = domain.PaymentFailed
		pe.FailureReason = e.Payment.ErrorDescription
		if pe.FailureReason == "" {
			pe.FailureReason = e.Payment.ErrorCode
		}
		if _, _, err := s.ledger.RecordPayment(ctx, pe); err != nil {
			return "", err
		}
		return OutcomeProcessed, nil

	case billing.RefundProcessed:
		if err := s.ledger.RecordRefund(ctx, e.Refund.PaymentID, e.Refund.ID); err != nil {
			return "", err
		}
		return OutcomeProcessed, nil

	case billing.UnknownEvent:
		logger.Info("unhandled webhook event acknowledged")
		return OutcomeIgnored, nil
	}

	return OutcomeIgnored, nil
}

func (s *WebhookService) applySubscription(ctx context.Context, logger *slog.Logger, snap *billing.SubscriptionSnapshot) (string, error) {
	row, err := s.repo.GetSponsorshipBySubscriptionID(ctx, snap.ID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return "", &domain.OrphanedEventError{SubscriptionID: snap.ID}
		}
		return "", fmt.Errorf("failed to get sponsorship: %w", err)
	}

	target, ok := snap.LocalStatus()
	if !ok {
		logger.Warn("unknown gateway subscription status", slog.String("gateway_status", snap.Status))
		return OutcomeIgnored, nil
	}

	a := Assertion{Target: target, EndDate: snap.EndedAt, Source: SourceWebhook}
	if !target.IsTerminal() {
		a.NextPaymentDate = snap.NextPaymentDate()
	}
	if target == domain.SponsorshipCancelled {
		a.Reason = "cancelled at gateway"
	}

	if _, _, err := s.sponsorships.ApplyGatewayStatus(ctx, postgres.SponsorshipFromRow(row), a); err != nil {
		return "", err
	}
	return OutcomeProcessed, nil
}

func paymentEvent(eventID, subscriptionID string, p billing.PaymentEntity) PaymentEvent {
	return PaymentEvent{
		EventID:        eventID,
		SubscriptionID: subscriptionID,
		PaymentID:      p.ID,
		OrderID:        p.OrderID,
		AmountPaise:    p.Amount,
		Currency:       p.Currency,
		Method:         p.Method,
		OccurredAt:     p.CreatedTime(),
	}
}

// storablePayload returns body as JSON for the event log, wrapping bodies
// that are not JSON.
func storablePayload(body []byte) []byte {
	if json.Valid(body) {
		return body
	}
	wrapped, _ := json.Marshal(map[string]string{"raw": string(body)})
	return wrapped
}
