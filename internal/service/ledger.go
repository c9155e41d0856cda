package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/notify"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/dukerupert/sponsor/internal/telemetry"
	"github.com/google/uuid"
)

// PaymentEvent is one gateway charge outcome to record in the ledger.
type PaymentEvent struct {
	EventID        string
	SubscriptionID string
	PaymentID      string
	OrderID        string
	AmountPaise    int64
	Currency       string
	Method         string
	Status         domain.PaymentStatus
	OccurredAt     time.Time
	FailureReason  string

	// Snapshot is the subscription as the gateway reported it with the
	// charge, if it did. It supplies the next payment date.
	Snapshot *billing.SubscriptionSnapshot
}

// LedgerService records sponsorship payments. The gateway payment id is the
// idempotency key: a payment is written at most once however often it is
// delivered.
type LedgerService struct {
	repo         repository.Querier
	sponsorships *SponsorshipService
	notifier     notify.Notifier
	logger       *slog.Logger

	// failureThreshold pauses an active sponsorship after this many
	// consecutive failed charges. Zero disables it.
	failureThreshold int

	now func() time.Time
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(
	repo repository.Querier,
	sponsorships *SponsorshipService,
	notifier notify.Notifier,
	logger *slog.Logger,
	failureThreshold int,
) *LedgerService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &LedgerService{
		repo:             repo,
		sponsorships:     sponsorships,
		notifier:         notifier,
		logger:           logger,
		failureThreshold: failureThreshold,
		now:              time.Now,
	}
}

// RecordPayment writes a payment to the ledger and applies its effect on the
// sponsorship. created is false when the payment was already recorded; the
// existing row is returned and a paid payment's effects are re-applied.
//
// Returns *domain.OrphanedEventError when no sponsorship has the event's
// subscription id.
func (s *LedgerService) RecordPayment(ctx context.Context, ev PaymentEvent) (*domain.Payment, bool, error) {
	if ev.PaymentID == "" {
		return nil, false, ErrMissingPaymentID
	}

	existing, err := s.repo.GetPaymentByRazorpayID(ctx, ev.PaymentID)
	if err == nil {
		return s.duplicate(ctx, existing, ev)
	}
	if !postgres.IsNoRows(err) {
		return nil, false, fmt.Errorf("failed to look up payment: %w", err)
	}

	row, err := s.repo.GetSponsorshipBySubscriptionID(ctx, ev.SubscriptionID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, false, &domain.OrphanedEventError{
				EventID:        ev.EventID,
				SubscriptionID: ev.SubscriptionID,
				PaymentID:      ev.PaymentID,
			}
		}
		return nil, false, fmt.Errorf("failed to get sponsorship: %w", err)
	}
	sp := postgres.SponsorshipFromRow(row)

	status := ev.Status
	if status == "" {
		status = domain.PaymentPending
	}
	occurred := ev.OccurredAt
	if occurred.IsZero() {
		occurred = s.now()
	}
	amount := ev.AmountPaise
	if amount == 0 {
		amount = row.AmountPaise
	}
	currency := ev.Currency
	if currency == "" {
		currency = sp.Currency
	}

	params := repository.InsertPaymentParams{
		SponsorshipID:          row.ID,
		SponsorID:              sp.SponsorID,
		BeneficiaryID:          row.BeneficiaryID,
		RazorpayPaymentID:      ev.PaymentID,
		RazorpaySubscriptionID: ev.SubscriptionID,
		RazorpayOrderID:        postgres.Text(ev.OrderID),
		AmountPaise:            amount,
		Currency:               currency,
		PaymentMethod:          ev.Method,
		Status:                 string(status),
		PaymentDate:            postgres.Timestamptz(&occurred),
		DueDate:                row.NextPaymentDate,
		FailureReason:          postgres.Text(ev.FailureReason),
	}
	if status == domain.PaymentPaid {
		params.PaidAt = postgres.Timestamptz(&occurred)
	}

	inserted, err := s.repo.InsertPayment(ctx, params)
	if err != nil {
		if postgres.IsNoRows(err) {
			// A concurrent delivery inserted it first.
			existing, err := s.repo.GetPaymentByRazorpayID(ctx, ev.PaymentID)
			if err != nil {
				return nil, false, fmt.Errorf("failed to read concurrent payment: %w", err)
			}
			return s.duplicate(ctx, existing, ev)
		}
		return nil, false, fmt.Errorf("failed to insert payment: %w", err)
	}

	payment := postgres.PaymentFromRow(inserted)
	telemetry.RecordPayment(string(payment.Status), false)
	s.logger.Info("payment recorded",
		slog.String("sponsorship_id", sp.ID.String()),
		slog.String("payment_id", payment.RazorpayPaymentID),
		slog.String("status", string(payment.Status)),
	)

	switch payment.Status {
	case domain.PaymentPaid:
		if err := s.applyPaid(ctx, sp, ev.Snapshot); err != nil {
			return nil, false, err
		}
	case domain.PaymentFailed:
		if err := s.applyFailure(ctx, sp, payment); err != nil {
			return nil, false, err
		}
	}
	return payment, true, nil
}

func (s *LedgerService) duplicate(ctx context.Context, row repository.SponsorshipPayment, ev PaymentEvent) (*domain.Payment, bool, error) {
	payment := postgres.PaymentFromRow(row)
	telemetry.RecordPayment(string(payment.Status), true)
	s.logger.Debug("duplicate payment ignored",
		slog.String("payment_id", payment.RazorpayPaymentID),
		slog.String("event_id", ev.EventID),
	)

	if payment.Status != domain.PaymentPaid {
		return payment, false, nil
	}

	// An earlier delivery may have failed after the insert.
	sp, err := s.sponsorships.getSponsorship(ctx, payment.SponsorshipID)
	if err != nil {
		return nil, false, err
	}
	if err := s.applyPaid(ctx, sp, ev.Snapshot); err != nil {
		return nil, false, err
	}
	return payment, false, nil
}

// applyPaid clears the failure counter and asserts the sponsorship live.
func (s *LedgerService) applyPaid(ctx context.Context, sp *domain.Sponsorship, snap *billing.SubscriptionSnapshot) error {
	if sp.FailedPaymentCount > 0 {
		if err := s.repo.ResetSponsorshipFailures(ctx, postgres.UUID(sp.ID)); err != nil {
			return fmt.Errorf("failed to reset payment failures: %w", err)
		}
	}

	a := Assertion{Target: domain.SponsorshipActive, Source: SourcePayment}
	if snap != nil {
		if target, ok := snap.LocalStatus(); ok && target != domain.SponsorshipPending {
			a.Target = target
		}
		if !a.Target.IsTerminal() {
			a.NextPaymentDate = snap.NextPaymentDate()
		}
		a.EndDate = snap.EndedAt
	}

	_, _, err := s.sponsorships.ApplyGatewayStatus(ctx, sp, a)
	return err
}

// applyFailure counts the failure, tells the sponsor and pauses the
// sponsorship once the threshold is reached.
func (s *LedgerService) applyFailure(ctx context.Context, sp *domain.Sponsorship, payment *domain.Payment) error {
	count, err := s.repo.IncrementSponsorshipFailures(ctx, postgres.UUID(sp.ID))
	if err != nil {
		return fmt.Errorf("failed to count payment failure: %w", err)
	}

	s.notifier.Notify(ctx, notify.Notification{
		Kind:          notify.KindPaymentFailed,
		SponsorshipID: sp.ID.String(),
		SponsorID:     sp.SponsorID,
		BeneficiaryID: sp.BeneficiaryID.String(),
		Detail: map[string]string{
			"payment_id":     payment.RazorpayPaymentID,
			"failure_reason": payment.FailureReason,
			"failed_count":   strconv.Itoa(int(count)),
		},
		OccurredAt: s.now(),
	})

	if s.failureThreshold <= 0 || int(count) < s.failureThreshold {
		return nil
	}

	s.logger.Warn("payment failure threshold reached",
		slog.String("sponsorship_id", sp.ID.String()),
		slog.Int("failed_count", int(count)),
	)
	_, _, err = s.sponsorships.apply(ctx, sp, transition{
		to:     domain.SponsorshipPaused,
		from:   []domain.SponsorshipStatus{domain.SponsorshipActive},
		source: SourcePayment,
	})
	return err
}

// RecordRefund sets the refund id on a ledger row. A row that already has
// one is left alone.
func (s *LedgerService) RecordRefund(ctx context.Context, paymentID, refundID string) error {
	if paymentID == "" {
		return ErrMissingPaymentID
	}

	if _, err := s.repo.GetPaymentByRazorpayID(ctx, paymentID); err != nil {
		if postgres.IsNoRows(err) {
			return &domain.OrphanedEventError{PaymentID: paymentID}
		}
		return fmt.Errorf("failed to look up payment: %w", err)
	}

	n, err := s.repo.SetPaymentRefund(ctx, repository.SetPaymentRefundParams{
		RazorpayPaymentID: paymentID,
		RefundID:          refundID,
	})
	if err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}
	if n == 0 {
		s.logger.Debug("refund already recorded", slog.String("payment_id", paymentID))
		return nil
	}

	s.logger.Info("refund recorded",
		slog.String("payment_id", paymentID),
		slog.String("refund_id", refundID),
	)
	return nil
}

// ListPayments returns a sponsorship's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, sponsorshipID uuid.UUID) ([]domain.Payment, error) {
	rows, err := s.repo.ListPaymentsBySponsorship(ctx, postgres.UUID(sponsorshipID))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]domain.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, *postgres.PaymentFromRow(r))
	}
	return payments, nil
}
