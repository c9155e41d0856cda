package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/dukerupert/sponsor/internal/telemetry"
	"github.com/google/uuid"
)

// SyncResult is the outcome of syncing one sponsorship with the gateway.
type SyncResult struct {
	SponsorshipID   uuid.UUID                `json:"sponsorship_id"`
	PreviousStatus  domain.SponsorshipStatus `json:"previous_status"`
	Status          domain.SponsorshipStatus `json:"status"`
	GatewayStatus   string                   `json:"gateway_status,omitempty"`
	Changed         bool                     `json:"changed"`
	NextPaymentDate *time.Time               `json:"next_payment_date,omitempty"`
}

// SyncError records one sponsorship a bulk sync could not reconcile.
type SyncError struct {
	SponsorshipID  uuid.UUID `json:"sponsorship_id"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	Error          string    `json:"error"`
}

// SyncSummary is the outcome of SyncAllSponsorships.
type SyncSummary struct {
	SyncedCount   int         `json:"synced_count"`
	ErrorCount    int         `json:"error_count"`
	Errors        []SyncError `json:"errors"`
	ReleasedCount int64       `json:"released_count"`
}

// FixResult is the outcome of FixStuckSponsorships.
type FixResult struct {
	FixedCount      int         `json:"fixed_count"`
	ReconciledCount int         `json:"reconciled_count"`
	SkippedCount    int         `json:"skipped_count"`
	Fixed           []uuid.UUID `json:"fixed"`
}

// ReconciliationService repairs drift between local sponsorships and the
// gateway. It is safe to run concurrently with webhooks: every write goes
// through the same guarded transitions.
type ReconciliationService struct {
	repo          repository.Querier
	gateway       billing.Gateway
	sponsorships  *SponsorshipService
	beneficiaries domain.BeneficiaryStore
	logger        *slog.Logger

	syncDelay  time.Duration
	stuckAfter time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewReconciliationService creates a new ReconciliationService instance.
func NewReconciliationService(
	repo repository.Querier,
	gateway billing.Gateway,
	sponsorships *SponsorshipService,
	beneficiaries domain.BeneficiaryStore,
	logger *slog.Logger,
	syncDelay time.Duration,
	stuckAfter time.Duration,
) *ReconciliationService {
	if stuckAfter <= 0 {
		stuckAfter = time.Hour
	}
	return &ReconciliationService{
		repo:          repo,
		gateway:       gateway,
		sponsorships:  sponsorships,
		beneficiaries: beneficiaries,
		logger:        logger,
		syncDelay:     syncDelay,
		stuckAfter:    stuckAfter,
		now:           time.Now,
		sleep:         sleepContext,
	}
}

// SyncSubscriptionStatus overwrites one sponsorship's status and dates with
// the gateway's. On a gateway failure nothing changes locally.
func (s *ReconciliationService) SyncSubscriptionStatus(ctx context.Context, sponsorshipID uuid.UUID) (*SyncResult, error) {
	sp, err := s.sponsorships.getSponsorship(ctx, sponsorshipID)
	if err != nil {
		return nil, err
	}
	telemetry.RecordReconcileRun("sync_one")
	return s.syncOne(ctx, sp)
}

func (s *ReconciliationService) syncOne(ctx context.Context, sp *domain.Sponsorship) (*SyncResult, error) {
	const op = "reconcile.sync"

	result := &SyncResult{
		SponsorshipID:   sp.ID,
		PreviousStatus:  sp.Status,
		Status:          sp.Status,
		NextPaymentDate: sp.NextPaymentDate,
	}

	if sp.Status.IsTerminal() {
		s.sponsorships.releaseBeneficiary(ctx, sp)
		return result, nil
	}
	if sp.RazorpaySubscriptionID == "" {
		return result, ErrNoSubscription
	}

	snap, err := s.gateway.FetchSubscription(ctx, sp.RazorpaySubscriptionID)
	if err != nil {
		return result, gatewayError(op, err)
	}
	result.GatewayStatus = snap.Status

	target, ok := snap.LocalStatus()
	if !ok {
		s.logger.Warn("unknown gateway subscription status",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("gateway_status", snap.Status),
		)
		return result, nil
	}

	a := Assertion{Target: target, EndDate: snap.EndedAt, Source: SourceReconcile}
	if !target.IsTerminal() {
		a.NextPaymentDate = snap.NextPaymentDate()
	}
	if target == domain.SponsorshipCancelled {
		a.Reason = "cancelled at gateway"
	}

	updated, _, err := s.sponsorships.ApplyGatewayStatus(ctx, sp, a)
	if err != nil {
		return result, err
	}

	result.Status = updated.Status
	result.Changed = updated.Status != sp.Status
	result.NextPaymentDate = updated.NextPaymentDate
	return result, nil
}

// SyncAllSponsorships syncs every live sponsorship that has a gateway
// subscription, pausing between gateway calls. Per-sponsorship failures are
// collected, not fatal. The run ends by releasing beneficiaries left flagged
// without a live sponsorship.
func (s *ReconciliationService) SyncAllSponsorships(ctx context.Context) (*SyncSummary, error) {
	telemetry.RecordReconcileRun("sync_all")

	rows, err := s.repo.ListSyncableSponsorships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsorships: %w", err)
	}

	summary := &SyncSummary{Errors: []SyncError{}}
	for i, row := range rows {
		if i > 0 {
			if err := s.sleep(ctx, s.syncDelay); err != nil {
				return summary, err
			}
		}

		sp := postgres.SponsorshipFromRow(row)
		res, err := s.syncOne(ctx, sp)
		if err != nil {
			summary.ErrorCount++
			summary.Errors = append(summary.Errors, SyncError{
				SponsorshipID:  sp.ID,
				SubscriptionID: sp.RazorpaySubscriptionID,
				Error:          err.Error(),
			})
			telemetry.RecordReconcileItem("error")
			telemetry.CaptureErrorWithTags(err, map[string]string{
				"sponsorship_id":  sp.ID.String(),
				"subscription_id": sp.RazorpaySubscriptionID,
			}, map[string]interface{}{"op": "reconcile.sync_all"})
			s.logger.Warn("sponsorship sync failed",
				slog.String("sponsorship_id", sp.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		summary.SyncedCount++
		if res.Changed {
			telemetry.RecordReconcileItem("changed")
		} else {
			telemetry.RecordReconcileItem("unchanged")
		}
	}

	released, err := s.beneficiaries.ReleaseStranded(ctx)
	if err != nil {
		telemetry.CaptureError(err, map[string]interface{}{"op": "reconcile.release_stranded"})
		s.logger.Error("failed to release stranded beneficiaries", slog.String("error", err.Error()))
		summary.ErrorCount++
		summary.Errors = append(summary.Errors, SyncError{Error: err.Error()})
	} else {
		summary.ReleasedCount = released
		telemetry.RecordBeneficiaryRelease("stranded", int(released))
	}

	s.logger.Info("sponsorship sync completed",
		slog.Int("synced", summary.SyncedCount),
		slog.Int("errors", summary.ErrorCount),
		slog.Int64("released", summary.ReleasedCount),
	)
	return summary, nil
}

// FixStuckSponsorships cancels sponsorships that have been pending longer
// than the stuck window, optionally for one sponsor only.
//
// A row with a gateway subscription is checked first. If the gateway moved
// on, its status is applied instead. An authorized mandate, an unreachable
// gateway or an unknown status skips the row.
func (s *ReconciliationService) FixStuckSponsorships(ctx context.Context, sponsorID *string) (*FixResult, error) {
	telemetry.RecordReconcileRun("fix_stuck")

	cutoff := s.now().Add(-s.stuckAfter)
	params := repository.ListStalePendingSponsorshipsParams{
		CreatedBefore: postgres.Timestamptz(&cutoff),
	}
	if sponsorID != nil {
		params.SponsorID = postgres.Text(*sponsorID)
	}

	rows, err := s.repo.ListStalePendingSponsorships(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck sponsorships: %w", err)
	}

	result := &FixResult{Fixed: []uuid.UUID{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			telemetry.RecordStuckFixed(result.FixedCount)
			return result, err
		}
		sp := postgres.SponsorshipFromRow(row)
		logger := s.logger.With(slog.String("sponsorship_id", sp.ID.String()))

		if sp.RazorpaySubscriptionID != "" {
			switch s.recheckGateway(ctx, logger, sp) {
			case stuckSkip:
				result.SkippedCount++
				telemetry.RecordReconcileItem("skipped")
				continue
			case stuckApplied:
				result.ReconciledCount++
				telemetry.RecordReconcileItem("changed")
				continue
			}
		}

		_, changed, err := s.sponsorships.Abandon(ctx, sp, "pending payment never completed", SourceReconcile)
		if err != nil {
			logger.Error("failed to cancel stuck sponsorship", slog.String("error", err.Error()))
			result.SkippedCount++
			telemetry.RecordReconcileItem("error")
			continue
		}
		if !changed {
			result.SkippedCount++
			telemetry.RecordReconcileItem("unchanged")
			continue
		}

		result.FixedCount++
		result.Fixed = append(result.Fixed, sp.ID)
		logger.Info("stuck sponsorship cancelled")
	}

	telemetry.RecordStuckFixed(result.FixedCount)
	return result, nil
}

// stuckAction is what FixStuckSponsorships does with one stale row after
// looking at the gateway.
type stuckAction int

const (
	stuckCancel stuckAction = iota
	stuckApplied
	stuckSkip
)

// recheckGateway looks at the gateway before a stuck row is cancelled.
// Only a subscription the sponsor never acted on ("created", or gone from
// the gateway) is cancelled. An authorized mandate waits for its first
// charge, and a status that cannot be read or mapped leaves the row alone.
func (s *ReconciliationService) recheckGateway(ctx context.Context, logger *slog.Logger, sp *domain.Sponsorship) stuckAction {
	snap, err := s.gateway.FetchSubscription(ctx, sp.RazorpaySubscriptionID)
	if err != nil {
		if gerr, ok := billing.AsGatewayError(err); ok && gerr.IsNotFound() {
			return stuckCancel
		}
		logger.Warn("gateway check failed, skipping stuck sponsorship", slog.String("error", err.Error()))
		return stuckSkip
	}

	switch snap.Status {
	case billing.GatewayStatusCreated:
		if _, err := s.gateway.CancelSubscription(ctx, sp.RazorpaySubscriptionID, false); err != nil {
			logger.Warn("gateway cancel of stuck subscription failed", slog.String("error", err.Error()))
		}
		return stuckCancel
	case billing.GatewayStatusAuthenticated:
		logger.Info("mandate authorized, waiting for first charge", slog.String("gateway_status", snap.Status))
		return stuckSkip
	}

	target, ok := snap.LocalStatus()
	if !ok {
		logger.Warn("unknown gateway status, skipping stuck sponsorship", slog.String("gateway_status", snap.Status))
		return stuckSkip
	}

	a := Assertion{Target: target, EndDate: snap.EndedAt, Source: SourceReconcile}
	if !target.IsTerminal() {
		a.NextPaymentDate = snap.NextPaymentDate()
	}
	if _, _, err := s.sponsorships.ApplyGatewayStatus(ctx, sp, a); err != nil {
		logger.Error("failed to apply gateway status", slog.String("error", err.Error()))
		return stuckSkip
	}
	return stuckApplied
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
