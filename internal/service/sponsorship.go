package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/sponsor/internal/auth"
	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/notify"
	"github.com/dukerupert/sponsor/internal/postgres"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/dukerupert/sponsor/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// liveBeneficiaryIndex enforces one live sponsorship per beneficiary.
const liveBeneficiaryIndex = "idx_sponsorships_live_beneficiary"

// Transition sources, recorded on metrics and logs.
const (
	SourceSponsor   = "sponsor"
	SourceCheckout  = "checkout"
	SourceWebhook   = "webhook"
	SourcePayment   = "payment"
	SourceReconcile = "reconcile"
	SourceSystem    = "system"
)

// CreateSponsorshipParams contains parameters for starting a sponsorship.
type CreateSponsorshipParams struct {
	BeneficiaryID string          `json:"beneficiary_id" validate:"required,uuid"`
	PlanType      string          `json:"plan_type" validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreateSponsorshipResult is a pending sponsorship plus what the sponsor
// needs to complete the first payment.
type CreateSponsorshipResult struct {
	Sponsorship *domain.Sponsorship `json:"sponsorship"`
	Checkout    *billing.Checkout   `json:"checkout"`
}

// CancelParams contains options for cancelling a sponsorship.
type CancelParams struct {
	// AtCycleEnd keeps the sponsorship running until the paid period ends.
	AtCycleEnd bool   `json:"at_cycle_end"`
	Reason     string `json:"reason" validate:"max=500"`
}

// ConfirmPaymentParams is the checkout callback for the first payment.
type ConfirmPaymentParams struct {
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// Assertion is a gateway-reported state for a sponsorship. Webhooks,
// reconciliation and checkout confirmation all apply gateway state through
// it.
type Assertion struct {
	Target          domain.SponsorshipStatus
	NextPaymentDate *time.Time
	EndDate         *time.Time
	Reason          string
	Source          string
}

// SponsorshipService owns the sponsorship lifecycle.
//
// Every status write is a conditional update guarded on the expected
// pre-states. A write whose guard no longer holds changes nothing and the
// caller gets the current row back.
type SponsorshipService struct {
	repo          repository.Querier
	gateway       billing.Gateway
	beneficiaries domain.BeneficiaryStore
	plans         *PlanService
	notifier      notify.Notifier
	policy        *auth.Policy
	logger        *slog.Logger
	currency      string

	validate *validator.Validate
	now      func() time.Time
}

// NewSponsorshipService creates a new SponsorshipService instance.
func NewSponsorshipService(
	repo repository.Querier,
	gateway billing.Gateway,
	beneficiaries domain.BeneficiaryStore,
	plans *PlanService,
	notifier notify.Notifier,
	policy *auth.Policy,
	logger *slog.Logger,
	currency string,
) *SponsorshipService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if currency == "" {
		currency = "INR"
	}
	return &SponsorshipService{
		repo:          repo,
		gateway:       gateway,
		beneficiaries: beneficiaries,
		plans:         plans,
		notifier:      notifier,
		policy:        policy,
		logger:        logger,
		currency:      currency,
		validate:      newValidator(),
		now:           time.Now,
	}
}

// CreateSponsorship starts a sponsorship for the principal.
//
// Flow:
//  1. Validates the request against the plan catalog
//  2. Inserts the sponsorship as "pending"
//  3. Claims the beneficiary
//  4. Creates the gateway subscription
//  5. Stores the subscription id and returns checkout parameters
//
// If the beneficiary cannot be claimed or the gateway call fails, the
// pending row is cancelled and the beneficiary released.
func (s *SponsorshipService) CreateSponsorship(ctx context.Context, principal *domain.Principal, params CreateSponsorshipParams) (*CreateSponsorshipResult, error) {
	const op = "sponsorship.create"

	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !s.policy.Can(principal, auth.CapSponsorshipCreate) {
		return nil, domain.Forbidden(op, "not allowed to create sponsorships")
	}
	if err := s.validate.Struct(params); err != nil {
		return nil, validationError(op, err)
	}
	beneficiaryID := uuid.MustParse(params.BeneficiaryID)

	plan, err := s.plans.GetPlan(ctx, params.PlanType)
	if err != nil {
		return nil, err
	}
	if err := s.plans.ValidateAmount(plan, params.Amount); err != nil {
		return nil, err
	}
	amountPaise, err := billing.ToPaise(params.Amount)
	if err != nil {
		return nil, domain.NewValidationError(op, "amount", err.Error())
	}

	row, err := s.repo.CreateSponsorship(ctx, repository.CreateSponsorshipParams{
		SponsorID:     principal.ID,
		BeneficiaryID: postgres.UUID(beneficiaryID),
		PlanType:      plan.PlanType,
		AmountPaise:   amountPaise,
		Currency:      s.currency,
	})
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err, liveBeneficiaryIndex):
			return nil, ErrBeneficiaryTaken
		case postgres.IsForeignKeyViolation(err):
			return nil, ErrBeneficiaryNotFound
		}
		return nil, fmt.Errorf("failed to create sponsorship: %w", err)
	}
	sp := postgres.SponsorshipFromRow(row)

	logger := s.logger.With(
		slog.String("sponsorship_id", sp.ID.String()),
		slog.String("beneficiary_id", beneficiaryID.String()),
	)

	if err := s.beneficiaries.MarkSponsored(ctx, beneficiaryID, principal.ID, sp.ID); err != nil {
		logger.Warn("beneficiary claim failed, abandoning sponsorship", slog.String("error", err.Error()))
		s.abandonQuietly(ctx, sp, "beneficiary unavailable")
		return nil, err
	}

	checkout, err := s.gateway.CreateSubscription(ctx, billing.CreateSubscriptionParams{
		SponsorshipID: sp.ID.String(),
		SponsorID:     principal.ID,
		BeneficiaryID: beneficiaryID.String(),
		PlanType:      plan.PlanType,
		IntervalUnit:  plan.IntervalUnit,
		IntervalCount: plan.IntervalCount,
		AmountPaise:   amountPaise,
		Currency:      s.currency,
	})
	if err != nil {
		logger.Error("gateway subscription creation failed", slog.String("error", err.Error()))
		s.abandonQuietly(ctx, sp, "gateway subscription creation failed")
		return nil, gatewayError(op, err)
	}

	row, err = s.repo.SetSponsorshipSubscription(ctx, repository.SetSponsorshipSubscriptionParams{
		ID:                     row.ID,
		RazorpaySubscriptionID: postgres.Text(checkout.SubscriptionID),
		RazorpayPlanID:         postgres.Text(checkout.PlanID),
	})
	if err != nil {
		// The pending row is left for FixStuckSponsorships.
		logger.Error("failed to store subscription id",
			slog.String("subscription_id", checkout.SubscriptionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to store subscription id: %w", err)
	}

	telemetry.RecordSponsorshipCreated(plan.PlanType)
	logger.Info("sponsorship created",
		slog.String("sponsor_id", principal.ID),
		slog.String("plan_type", plan.PlanType),
		slog.String("subscription_id", checkout.SubscriptionID),
	)

	return &CreateSponsorshipResult{
		Sponsorship: postgres.SponsorshipFromRow(row),
		Checkout:    checkout,
	}, nil
}

// GetSponsorship returns a sponsorship with its payments, newest first.
func (s *SponsorshipService) GetSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.SponsorshipDetail, error) {
	sp, err := s.load(ctx, principal, id, auth.CapSponsorshipManageOwn, auth.CapSponsorshipViewAny)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListPaymentsBySponsorship(ctx, postgres.UUID(sp.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	detail := &domain.SponsorshipDetail{
		Sponsorship: *sp,
		Payments:    make([]domain.Payment, 0, len(rows)),
	}
	for _, r := range rows {
		detail.Payments = append(detail.Payments, *postgres.PaymentFromRow(r))
	}
	return detail, nil
}

// ListSponsorships returns the principal's own sponsorships, newest first.
func (s *SponsorshipService) ListSponsorships(ctx context.Context, principal *domain.Principal) ([]domain.Sponsorship, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !s.policy.Can(principal, auth.CapSponsorshipManageOwn) {
		return nil, domain.Forbidden("sponsorship.list", "not allowed to list sponsorships")
	}

	rows, err := s.repo.ListSponsorshipsBySponsor(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsorships: %w", err)
	}

	out := make([]domain.Sponsorship, 0, len(rows))
	for _, r := range rows {
		out = append(out, *postgres.SponsorshipFromRow(r))
	}
	return out, nil
}

// PauseSponsorship stops billing on an active sponsorship.
func (s *SponsorshipService) PauseSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.Sponsorship, error) {
	const op = "sponsorship.pause"

	sp, err := s.load(ctx, principal, id, auth.CapSponsorshipManageOwn, auth.CapSponsorshipManageAny)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(sp.Status, domain.SponsorshipPaused, ErrSponsorshipNotActive); err != nil {
		return nil, err
	}
	if sp.RazorpaySubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	if _, err := s.gateway.PauseSubscription(ctx, sp.RazorpaySubscriptionID); err != nil {
		s.logger.Error("gateway pause failed",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, gatewayError(op, err)
	}

	updated, _, err := s.apply(ctx, sp, transition{
		to:     domain.SponsorshipPaused,
		from:   []domain.SponsorshipStatus{domain.SponsorshipActive},
		source: SourceSponsor,
	})
	return updated, err
}

// ResumeSponsorship restarts billing on a paused sponsorship.
func (s *SponsorshipService) ResumeSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.Sponsorship, error) {
	const op = "sponsorship.resume"

	sp, err := s.load(ctx, principal, id, auth.CapSponsorshipManageOwn, auth.CapSponsorshipManageAny)
	if err != nil {
		return nil, err
	}
	// A pending sponsorship becomes active through its first payment only.
	if sp.Status == domain.SponsorshipPending {
		return nil, ErrSponsorshipNotPaused
	}
	if err := checkTransition(sp.Status, domain.SponsorshipActive, ErrSponsorshipNotPaused); err != nil {
		return nil, err
	}
	if sp.RazorpaySubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	snap, err := s.gateway.ResumeSubscription(ctx, sp.RazorpaySubscriptionID)
	if err != nil {
		s.logger.Error("gateway resume failed",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, gatewayError(op, err)
	}

	updated, _, err := s.apply(ctx, sp, transition{
		to:              domain.SponsorshipActive,
		from:            []domain.SponsorshipStatus{domain.SponsorshipPaused},
		nextPaymentDate: snap.NextPaymentDate(),
		source:          SourceSponsor,
	})
	return updated, err
}

// CancelSponsorship ends a sponsorship and releases its beneficiary.
//
// With AtCycleEnd the gateway keeps charging until the current period ends;
// the sponsorship stays in its state with end_date set, and the gateway's
// cancellation event terminalizes it later.
func (s *SponsorshipService) CancelSponsorship(ctx context.Context, principal *domain.Principal, id uuid.UUID, params CancelParams) (*domain.Sponsorship, error) {
	const op = "sponsorship.cancel"

	if err := s.validate.Struct(params); err != nil {
		return nil, validationError(op, err)
	}

	sp, err := s.load(ctx, principal, id, auth.CapSponsorshipManageOwn, auth.CapSponsorshipManageAny)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(sp.Status, domain.SponsorshipCancelled, ErrSponsorshipEnded); err != nil {
		return nil, err
	}

	reason := params.Reason
	if reason == "" {
		reason = "cancelled by sponsor"
	}

	var snap *billing.SubscriptionSnapshot
	if sp.RazorpaySubscriptionID != "" {
		atCycleEnd := params.AtCycleEnd && sp.Status != domain.SponsorshipPending
		snap, err = s.gateway.CancelSubscription(ctx, sp.RazorpaySubscriptionID, atCycleEnd)
		if err != nil {
			s.logger.Error("gateway cancel failed",
				slog.String("sponsorship_id", sp.ID.String()),
				slog.String("error", err.Error()),
			)
			return nil, gatewayError(op, err)
		}

		if atCycleEnd {
			updated, _, err := s.apply(ctx, sp, transition{
				to:      sp.Status,
				from:    []domain.SponsorshipStatus{sp.Status},
				endDate: snap.CurrentEnd,
				reason:  reason,
				source:  SourceSponsor,
			})
			return updated, err
		}
	}

	t := transition{
		to:     domain.SponsorshipCancelled,
		from:   domain.LiveStatuses,
		reason: reason,
		source: SourceSponsor,
	}
	if snap != nil {
		t.endDate = snap.EndedAt
	}
	updated, _, err := s.apply(ctx, sp, t)
	return updated, err
}

// ConfirmPayment completes checkout for the first payment. The signature
// proves the sponsor paid; the gateway snapshot supplies the billing dates.
func (s *SponsorshipService) ConfirmPayment(ctx context.Context, principal *domain.Principal, id uuid.UUID, params ConfirmPaymentParams) (*domain.Sponsorship, error) {
	const op = "sponsorship.confirm_payment"

	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if err := s.validate.Struct(params); err != nil {
		return nil, validationError(op, err)
	}

	sp, err := s.getSponsorship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sp.OwnedBy(principal.ID) {
		return nil, ErrNotSponsorshipOwner
	}
	if sp.RazorpaySubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	if !s.gateway.VerifySubscriptionSignature(sp.RazorpaySubscriptionID, params.PaymentID, params.Signature) {
		s.logger.Warn("checkout signature rejected",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("payment_id", params.PaymentID),
		)
		return nil, ErrInvalidSignature
	}

	snap, err := s.gateway.FetchSubscription(ctx, sp.RazorpaySubscriptionID)
	if err != nil {
		return nil, gatewayError(op, err)
	}

	target, ok := snap.LocalStatus()
	if !ok {
		s.logger.Warn("unknown gateway status on checkout",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("gateway_status", snap.Status),
		)
		return sp, nil
	}
	if target == domain.SponsorshipPending {
		target = domain.SponsorshipActive
	}

	updated, _, err := s.ApplyGatewayStatus(ctx, sp, Assertion{
		Target:          target,
		NextPaymentDate: snap.NextPaymentDate(),
		Source:          SourceCheckout,
	})
	return updated, err
}

// ApplyGatewayStatus moves sp to the gateway-reported state.
//
// The gateway wins over any live local state, but terminal states are never
// left, and a pending assertion never demotes a sponsorship that has already
// been charged. For a terminal sponsorship the beneficiary release is
// re-asserted. The bool reports whether a row was written.
func (s *SponsorshipService) ApplyGatewayStatus(ctx context.Context, sp *domain.Sponsorship, a Assertion) (*domain.Sponsorship, bool, error) {
	if sp.Status.IsTerminal() {
		s.releaseBeneficiary(ctx, sp)
		return sp, false, nil
	}

	if sp.Status == a.Target {
		if a.NextPaymentDate == nil && a.EndDate == nil {
			return sp, false, nil
		}
		return s.apply(ctx, sp, transition{
			to:              a.Target,
			from:            []domain.SponsorshipStatus{a.Target},
			nextPaymentDate: a.NextPaymentDate,
			endDate:         a.EndDate,
			source:          a.Source,
		})
	}

	if a.Target == domain.SponsorshipPending {
		s.logger.Info("ignoring pending assertion for charged sponsorship",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("status", string(sp.Status)),
			slog.String("source", a.Source),
		)
		return sp, false, nil
	}

	return s.apply(ctx, sp, transition{
		to:              a.Target,
		from:            domain.AssertableFrom(a.Target),
		nextPaymentDate: a.NextPaymentDate,
		endDate:         a.EndDate,
		reason:          a.Reason,
		source:          a.Source,
	})
}

// Abandon cancels a sponsorship that never left pending and releases its
// beneficiary. It does not touch the gateway.
func (s *SponsorshipService) Abandon(ctx context.Context, sp *domain.Sponsorship, reason, source string) (*domain.Sponsorship, bool, error) {
	return s.apply(ctx, sp, transition{
		to:     domain.SponsorshipCancelled,
		from:   []domain.SponsorshipStatus{domain.SponsorshipPending},
		reason: reason,
		source: source,
	})
}

func (s *SponsorshipService) abandonQuietly(ctx context.Context, sp *domain.Sponsorship, reason string) {
	if _, _, err := s.Abandon(ctx, sp, reason, SourceSystem); err != nil {
		s.logger.Error("failed to abandon sponsorship",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// load fetches a sponsorship and checks the principal may act on it.
func (s *SponsorshipService) load(ctx context.Context, principal *domain.Principal, id uuid.UUID, ownCap, anyCap auth.Capability) (*domain.Sponsorship, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	sp, err := s.getSponsorship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAccess(principal, sp.SponsorID, ownCap, anyCap) {
		return nil, ErrNotSponsorshipOwner
	}
	return sp, nil
}

func (s *SponsorshipService) getSponsorship(ctx context.Context, id uuid.UUID) (*domain.Sponsorship, error) {
	row, err := s.repo.GetSponsorship(ctx, postgres.UUID(id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, ErrSponsorshipNotFound
		}
		return nil, fmt.Errorf("failed to get sponsorship: %w", err)
	}
	return postgres.SponsorshipFromRow(row), nil
}

// checkTransition rejects a sponsor action the status graph does not allow.
// An ended sponsorship always reports ErrSponsorshipEnded.
func checkTransition(current, next domain.SponsorshipStatus, notAllowed error) error {
	if current.CanTransitionTo(next) {
		return nil
	}
	if current.IsTerminal() {
		return ErrSponsorshipEnded
	}
	return notAllowed
}

type transition struct {
	to              domain.SponsorshipStatus
	from            []domain.SponsorshipStatus
	nextPaymentDate *time.Time
	endDate         *time.Time
	reason          string
	source          string
}

// apply performs one guarded status write. When the guard is stale the row
// is re-read and returned with changed=false.
func (s *SponsorshipService) apply(ctx context.Context, sp *domain.Sponsorship, t transition) (*domain.Sponsorship, bool, error) {
	now := s.now()

	expected := make([]string, len(t.from))
	for i, st := range t.from {
		expected[i] = string(st)
	}

	params := repository.TransitionSponsorshipParams{
		ID:                 postgres.UUID(sp.ID),
		Status:             string(t.to),
		ExpectedStatuses:   expected,
		NextPaymentDate:    postgres.Timestamptz(t.nextPaymentDate),
		EndDate:            postgres.Timestamptz(t.endDate),
		CancellationReason: postgres.Text(t.reason),
	}
	if t.to == domain.SponsorshipActive {
		params.StartDate = postgres.Timestamptz(&now)
	}

	n, err := s.repo.TransitionSponsorship(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update sponsorship status: %w", err)
	}

	if n == 0 {
		current, err := s.getSponsorship(ctx, sp.ID)
		if err != nil {
			return nil, false, err
		}
		s.logger.Info("stale sponsorship transition skipped",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("target", string(t.to)),
			slog.String("current", string(current.Status)),
			slog.String("source", t.source),
		)
		return current, false, nil
	}

	prev := sp.Status
	updated := *sp
	updated.Status = t.to
	updated.UpdatedAt = now
	if t.nextPaymentDate != nil {
		updated.NextPaymentDate = t.nextPaymentDate
	}
	if t.endDate != nil {
		updated.EndDate = t.endDate
	}
	if updated.StartDate == nil && t.to == domain.SponsorshipActive {
		updated.StartDate = &now
	}
	if t.reason != "" {
		updated.CancellationReason = t.reason
	}
	if t.to == domain.SponsorshipCancelled && updated.CancelledAt == nil {
		updated.CancelledAt = &now
	}

	if prev != t.to {
		telemetry.RecordTransition(string(prev), string(t.to), t.source)
		s.logger.Info("sponsorship status changed",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("from", string(prev)),
			slog.String("to", string(t.to)),
			slog.String("source", t.source),
		)
		s.afterTransition(ctx, &updated, prev)
	}
	return &updated, true, nil
}

// afterTransition runs the side effects of a status change. Neither step
// can fail the transition.
func (s *SponsorshipService) afterTransition(ctx context.Context, sp *domain.Sponsorship, prev domain.SponsorshipStatus) {
	switch {
	case prev == domain.SponsorshipPending && sp.Status == domain.SponsorshipActive:
		s.notify(ctx, notify.KindSponsorshipActivated, sp, nil)
	case sp.Status == domain.SponsorshipCancelled && prev != domain.SponsorshipPending:
		s.notify(ctx, notify.KindSponsorshipCancelled, sp, map[string]string{
			"reason": sp.CancellationReason,
		})
	}

	if !sp.Status.IsLive() {
		s.releaseBeneficiary(ctx, sp)
	}
}

// releaseBeneficiary clears the beneficiary flag. Failures are repaired by
// reconciliation.
func (s *SponsorshipService) releaseBeneficiary(ctx context.Context, sp *domain.Sponsorship) {
	if err := s.beneficiaries.ClearSponsorship(ctx, sp.BeneficiaryID); err != nil {
		telemetry.RecordBeneficiaryRelease("failed", 1)
		s.logger.Error("failed to release beneficiary",
			slog.String("sponsorship_id", sp.ID.String()),
			slog.String("beneficiary_id", sp.BeneficiaryID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	telemetry.RecordBeneficiaryRelease("released", 1)
}

func (s *SponsorshipService) notify(ctx context.Context, kind notify.Kind, sp *domain.Sponsorship, detail map[string]string) {
	s.notifier.Notify(ctx, notify.Notification{
		Kind:          kind,
		SponsorshipID: sp.ID.String(),
		SponsorID:     sp.SponsorID,
		BeneficiaryID: sp.BeneficiaryID.String(),
		Detail:        detail,
		OccurredAt:    s.now(),
	})
}
