package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SponsorshipStatus is the lifecycle state of a sponsorship.
type SponsorshipStatus string

const (
	SponsorshipPending   SponsorshipStatus = "pending"
	SponsorshipActive    SponsorshipStatus = "active"
	SponsorshipPaused    SponsorshipStatus = "paused"
	SponsorshipCancelled SponsorshipStatus = "cancelled"
	SponsorshipExpired   SponsorshipStatus = "expired"
)

// sponsorTransitions is the graph sponsor-initiated and first-payment
// transitions must follow.
var sponsorTransitions = map[SponsorshipStatus][]SponsorshipStatus{
	SponsorshipPending: {SponsorshipActive, SponsorshipCancelled},
	SponsorshipActive:  {SponsorshipPaused, SponsorshipCancelled, SponsorshipExpired},
	SponsorshipPaused:  {SponsorshipActive, SponsorshipCancelled},
}

// LiveStatuses are the states in which a sponsorship holds its beneficiary.
var LiveStatuses = []SponsorshipStatus{SponsorshipPending, SponsorshipActive, SponsorshipPaused}

// IsTerminal reports whether no transition may leave s.
func (s SponsorshipStatus) IsTerminal() bool {
	return s == SponsorshipCancelled || s == SponsorshipExpired
}

// IsLive reports whether s reserves the beneficiary.
func (s SponsorshipStatus) IsLive() bool {
	return slices.Contains(LiveStatuses, s)
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s SponsorshipStatus) CanTransitionTo(next SponsorshipStatus) bool {
	return slices.Contains(sponsorTransitions[s], next)
}

// AssertableFrom returns the states a gateway-reported target may overwrite.
// The gateway is authoritative for billing state, so any live state other
// than the target qualifies; terminal states are never left.
func AssertableFrom(target SponsorshipStatus) []SponsorshipStatus {
	from := make([]SponsorshipStatus, 0, len(LiveStatuses))
	for _, s := range LiveStatuses {
		if s != target {
			from = append(from, s)
		}
	}
	return from
}

// Sponsorship binds a sponsor, a beneficiary and a recurring billing plan.
type Sponsorship struct {
	ID                     uuid.UUID         `json:"id"`
	SponsorID              string            `json:"sponsor_id"`
	BeneficiaryID          uuid.UUID         `json:"beneficiary_id"`
	PlanType               string            `json:"plan_type"`
	Amount                 decimal.Decimal   `json:"amount"`
	Currency               string            `json:"currency"`
	Status                 SponsorshipStatus `json:"status"`
	RazorpaySubscriptionID string            `json:"razorpay_subscription_id,omitempty"`
	RazorpayPlanID         string            `json:"-"`
	NextPaymentDate        *time.Time        `json:"next_payment_date,omitempty"`
	StartDate              *time.Time        `json:"start_date,omitempty"`
	EndDate                *time.Time        `json:"end_date,omitempty"`
	FailedPaymentCount     int               `json:"failed_payment_count"`
	CancelledAt            *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason     string            `json:"cancellation_reason,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// OwnedBy reports whether sponsorID created the sponsorship.
func (s *Sponsorship) OwnedBy(sponsorID string) bool {
	return s.SponsorID == sponsorID
}

// SponsorshipDetail is a sponsorship with its payment history, newest first.
type SponsorshipDetail struct {
	Sponsorship
	Payments []Payment `json:"payments"`
}
