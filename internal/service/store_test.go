package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// memStore is an in-memory repository.Querier that follows the SQL
// semantics of the real queries closely enough for scenario tests:
// guarded transitions, the live-beneficiary index, ON CONFLICT handling
// and the beneficiary claim and release rules.
type memStore struct {
	mu sync.Mutex

	now func() time.Time

	plans         map[string]repository.SubscriptionPlan
	beneficiaries map[[16]byte]*repository.Beneficiary
	sponsorships  map[[16]byte]*repository.Sponsorship
	payments      map[string]*repository.SponsorshipPayment
	events        map[string]*repository.WebhookEvent

	// failTransition, when set, is returned by TransitionSponsorship.
	failTransition error
}

var _ repository.Querier = (*memStore)(nil)

func newMemStore(now func() time.Time) *memStore {
	s := &memStore{
		now:           now,
		plans:         make(map[string]repository.SubscriptionPlan),
		beneficiaries: make(map[[16]byte]*repository.Beneficiary),
		sponsorships:  make(map[[16]byte]*repository.Sponsorship),
		payments:      make(map[string]*repository.SponsorshipPayment),
		events:        make(map[string]*repository.WebhookEvent),
	}
	s.plans["monthly"] = repository.SubscriptionPlan{
		PlanType: "monthly", MinAmountPaise: 10000, MaxAmountPaise: 10000000,
		SuggestedAmountPaise: 50000, IntervalCount: 1, IntervalUnit: "monthly",
		IsActive: true, DisplayOrder: 1,
	}
	s.plans["yearly"] = repository.SubscriptionPlan{
		PlanType: "yearly", MinAmountPaise: 100000, MaxAmountPaise: 100000000,
		SuggestedAmountPaise: 600000, IntervalCount: 1, IntervalUnit: "yearly",
		IsActive: true, DisplayOrder: 3,
	}
	s.plans["weekly"] = repository.SubscriptionPlan{
		PlanType: "weekly", MinAmountPaise: 10000, MaxAmountPaise: 100000,
		SuggestedAmountPaise: 10000, IntervalCount: 1, IntervalUnit: "weekly",
		IsActive: false, DisplayOrder: 9,
	}
	return s
}

func (s *memStore) ts() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: s.now(), Valid: true}
}

func (s *memStore) addBeneficiary(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.beneficiaries[id] = &repository.Beneficiary{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		Name:      name,
		CreatedAt: s.ts(),
		UpdatedAt: s.ts(),
	}
	return id
}

// addSponsorship inserts a row directly, bypassing the service.
func (s *memStore) addSponsorship(sp repository.Sponsorship) repository.Sponsorship {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sp.ID.Valid {
		sp.ID = pgtype.UUID{Bytes: uuid.New(), Valid: true}
	}
	if sp.Currency == "" {
		sp.Currency = "INR"
	}
	if !sp.CreatedAt.Valid {
		sp.CreatedAt = s.ts()
	}
	sp.UpdatedAt = sp.CreatedAt
	s.sponsorships[sp.ID.Bytes] = &sp
	return sp
}

func (s *memStore) sponsorship(id uuid.UUID) repository.Sponsorship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.sponsorships[id]
}

func (s *memStore) beneficiary(id uuid.UUID) repository.Beneficiary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.beneficiaries[id]
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) event(providerEventID string) (repository.WebhookEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events["razorpay/"+providerEventID]
	if !ok {
		return repository.WebhookEvent{}, false
	}
	return *e, true
}

func isLive(status string) bool {
	return status == "pending" || status == "active" || status == "paused"
}

func (s *memStore) liveHolder(beneficiaryID [16]byte, except [16]byte) bool {
	for _, sp := range s.sponsorships {
		if sp.BeneficiaryID.Bytes == beneficiaryID && isLive(sp.Status) && sp.ID.Bytes != except {
			return true
		}
	}
	return false
}

func (s *memStore) ClearBeneficiarySponsorship(_ context.Context, id pgtype.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beneficiaries[id.Bytes]
	if !ok || !b.IsSponsored || s.liveHolder(id.Bytes, [16]byte{}) {
		return 0, nil
	}
	b.IsSponsored = false
	b.SponsorID = pgtype.Text{}
	b.SponsoredAt = pgtype.Timestamptz{}
	return 1, nil
}

func (s *memStore) CreateSponsorship(_ context.Context, arg repository.CreateSponsorshipParams) (repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.beneficiaries[arg.BeneficiaryID.Bytes]; !ok {
		return repository.Sponsorship{}, &pgconn.PgError{Code: "23503", ConstraintName: "sponsorships_beneficiary_id_fkey"}
	}
	if s.liveHolder(arg.BeneficiaryID.Bytes, [16]byte{}) {
		return repository.Sponsorship{}, &pgconn.PgError{Code: "23505", ConstraintName: liveBeneficiaryIndex}
	}
	sp := &repository.Sponsorship{
		ID:            pgtype.UUID{Bytes: uuid.New(), Valid: true},
		SponsorID:     arg.SponsorID,
		BeneficiaryID: arg.BeneficiaryID,
		PlanType:      arg.PlanType,
		AmountPaise:   arg.AmountPaise,
		Currency:      arg.Currency,
		Status:        "pending",
		CreatedAt:     s.ts(),
		UpdatedAt:     s.ts(),
	}
	s.sponsorships[sp.ID.Bytes] = sp
	return *sp, nil
}

func (s *memStore) GetBeneficiary(_ context.Context, id pgtype.UUID) (repository.Beneficiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beneficiaries[id.Bytes]
	if !ok {
		return repository.Beneficiary{}, pgx.ErrNoRows
	}
	return *b, nil
}

func (s *memStore) GetPaymentByRazorpayID(_ context.Context, razorpayPaymentID string) (repository.SponsorshipPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[razorpayPaymentID]
	if !ok {
		return repository.SponsorshipPayment{}, pgx.ErrNoRows
	}
	return *p, nil
}

func (s *memStore) GetPlan(_ context.Context, planType string) (repository.SubscriptionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[planType]
	if !ok {
		return repository.SubscriptionPlan{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *memStore) GetSponsorship(_ context.Context, id pgtype.UUID) (repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.sponsorships[id.Bytes]
	if !ok {
		return repository.Sponsorship{}, pgx.ErrNoRows
	}
	return *sp, nil
}

func (s *memStore) GetSponsorshipBySubscriptionID(_ context.Context, subscriptionID string) (repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.sponsorships {
		if sp.RazorpaySubscriptionID.Valid && sp.RazorpaySubscriptionID.String == subscriptionID {
			return *sp, nil
		}
	}
	return repository.Sponsorship{}, pgx.ErrNoRows
}

func (s *memStore) IncrementSponsorshipFailures(_ context.Context, id pgtype.UUID) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.sponsorships[id.Bytes]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	sp.FailedPaymentCount++
	return sp.FailedPaymentCount, nil
}

func (s *memStore) InsertPayment(_ context.Context, arg repository.InsertPaymentParams) (repository.SponsorshipPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[arg.RazorpayPaymentID]; ok {
		return repository.SponsorshipPayment{}, pgx.ErrNoRows
	}
	p := &repository.SponsorshipPayment{
		ID:                     pgtype.UUID{Bytes: uuid.New(), Valid: true},
		SponsorshipID:          arg.SponsorshipID,
		SponsorID:              arg.SponsorID,
		BeneficiaryID:          arg.BeneficiaryID,
		RazorpayPaymentID:      arg.RazorpayPaymentID,
		RazorpaySubscriptionID: arg.RazorpaySubscriptionID,
		RazorpayOrderID:        arg.RazorpayOrderID,
		AmountPaise:            arg.AmountPaise,
		Currency:               arg.Currency,
		PaymentMethod:          arg.PaymentMethod,
		Status:                 arg.Status,
		PaymentDate:            arg.PaymentDate,
		DueDate:                arg.DueDate,
		PaidAt:                 arg.PaidAt,
		FailureReason:          arg.FailureReason,
		CreatedAt:              s.ts(),
	}
	s.payments[arg.RazorpayPaymentID] = p
	return *p, nil
}

func (s *memStore) ListActivePlans(_ context.Context) ([]repository.SubscriptionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.SubscriptionPlan
	for _, p := range s.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *memStore) ListPaymentsBySponsorship(_ context.Context, sponsorshipID pgtype.UUID) ([]repository.SponsorshipPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []repository.SponsorshipPayment
	for _, p := range s.payments {
		if p.SponsorshipID.Bytes == sponsorshipID.Bytes {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Time.After(out[j].PaymentDate.Time) })
	return out, nil
}

func (s *memStore) sortedSponsorships(keep func(*repository.Sponsorship) bool) []repository.Sponsorship {
	var out []repository.Sponsorship
	for _, sp := range s.sponsorships {
		if keep(sp) {
			out = append(out, *sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.Before(out[j].CreatedAt.Time) })
	return out
}

func (s *memStore) ListSponsorshipsBySponsor(_ context.Context, sponsorID string) ([]repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sortedSponsorships(func(sp *repository.Sponsorship) bool { return sp.SponsorID == sponsorID })
	slices.Reverse(out)
	return out, nil
}

func (s *memStore) ListStalePendingSponsorships(_ context.Context, arg repository.ListStalePendingSponsorshipsParams) ([]repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSponsorships(func(sp *repository.Sponsorship) bool {
		return sp.Status == "pending" &&
			sp.CreatedAt.Time.Before(arg.CreatedBefore.Time) &&
			(!arg.SponsorID.Valid || sp.SponsorID == arg.SponsorID.String)
	}), nil
}

func (s *memStore) ListSyncableSponsorships(_ context.Context) ([]repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSponsorships(func(sp *repository.Sponsorship) bool {
		return isLive(sp.Status) && sp.RazorpaySubscriptionID.Valid
	}), nil
}

func (s *memStore) MarkBeneficiarySponsored(_ context.Context, arg repository.MarkBeneficiarySponsoredParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.beneficiaries[arg.ID.Bytes]
	if !ok {
		return 0, nil
	}
	if b.IsSponsored && s.liveHolder(arg.ID.Bytes, arg.SponsorshipID.Bytes) {
		return 0, nil
	}
	b.IsSponsored = true
	b.SponsorID = arg.SponsorID
	b.SponsoredAt = s.ts()
	return 1, nil
}

func (s *memStore) MarkWebhookEventFailed(_ context.Context, arg repository.MarkWebhookEventFailedParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID.Bytes == arg.ID.Bytes && !e.ProcessedAt.Valid {
			e.ProcessingError = arg.ProcessingError
		}
	}
	return nil
}

func (s *memStore) MarkWebhookEventProcessed(_ context.Context, arg repository.MarkWebhookEventProcessedParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID.Bytes == arg.ID.Bytes {
			e.ProcessedAt = s.ts()
			e.ProcessingError = arg.ProcessingError
		}
	}
	return nil
}

func (s *memStore) ReleaseStrandedBeneficiaries(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, b := range s.beneficiaries {
		if b.IsSponsored && !s.liveHolder(id, [16]byte{}) {
			b.IsSponsored = false
			b.SponsorID = pgtype.Text{}
			b.SponsoredAt = pgtype.Timestamptz{}
			n++
		}
	}
	return n, nil
}

func (s *memStore) ResetSponsorshipFailures(_ context.Context, id pgtype.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp, ok := s.sponsorships[id.Bytes]; ok {
		sp.FailedPaymentCount = 0
	}
	return nil
}

func (s *memStore) SetPaymentRefund(_ context.Context, arg repository.SetPaymentRefundParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[arg.RazorpayPaymentID]
	if !ok || p.RefundID.Valid {
		return 0, nil
	}
	p.RefundID = pgtype.Text{String: arg.RefundID, Valid: true}
	return 1, nil
}

func (s *memStore) SetSponsorshipSubscription(_ context.Context, arg repository.SetSponsorshipSubscriptionParams) (repository.Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.sponsorships[arg.ID.Bytes]
	if !ok || sp.RazorpaySubscriptionID.Valid {
		return repository.Sponsorship{}, pgx.ErrNoRows
	}
	sp.RazorpaySubscriptionID = arg.RazorpaySubscriptionID
	sp.RazorpayPlanID = arg.RazorpayPlanID
	sp.UpdatedAt = s.ts()
	return *sp, nil
}

func (s *memStore) TransitionSponsorship(_ context.Context, arg repository.TransitionSponsorshipParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTransition != nil {
		return 0, s.failTransition
	}
	sp, ok := s.sponsorships[arg.ID.Bytes]
	if !ok || !slices.Contains(arg.ExpectedStatuses, sp.Status) {
		return 0, nil
	}
	sp.Status = arg.Status
	if arg.NextPaymentDate.Valid {
		sp.NextPaymentDate = arg.NextPaymentDate
	}
	if !sp.StartDate.Valid {
		sp.StartDate = arg.StartDate
	}
	if arg.EndDate.Valid {
		sp.EndDate = arg.EndDate
	}
	if arg.Status == "cancelled" && !sp.CancelledAt.Valid {
		sp.CancelledAt = s.ts()
	}
	if arg.CancellationReason.Valid {
		sp.CancellationReason = arg.CancellationReason
	}
	sp.UpdatedAt = s.ts()
	return 1, nil
}

func (s *memStore) UpsertPlan(_ context.Context, arg repository.UpsertPlanParams) (repository.SubscriptionPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := repository.SubscriptionPlan{
		PlanType:             arg.PlanType,
		MinAmountPaise:       arg.MinAmountPaise,
		MaxAmountPaise:       arg.MaxAmountPaise,
		SuggestedAmountPaise: arg.SuggestedAmountPaise,
		IntervalCount:        arg.IntervalCount,
		IntervalUnit:         arg.IntervalUnit,
		IsActive:             arg.IsActive,
		DisplayOrder:         arg.DisplayOrder,
		CreatedAt:            s.ts(),
		UpdatedAt:            s.ts(),
	}
	s.plans[arg.PlanType] = p
	return p, nil
}

func (s *memStore) UpsertWebhookEvent(_ context.Context, arg repository.UpsertWebhookEventParams) (repository.WebhookEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := arg.Provider + "/" + arg.ProviderEventID
	if e, ok := s.events[key]; ok {
		e.Attempts++
		return *e, nil
	}
	e := &repository.WebhookEvent{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Provider:        arg.Provider,
		ProviderEventID: arg.ProviderEventID,
		EventType:       arg.EventType,
		Payload:         arg.Payload,
		Attempts:        1,
		ReceivedAt:      s.ts(),
	}
	s.events[key] = e
	return *e, nil
}
