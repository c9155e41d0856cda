package billing

import (
	"context"
	"time"

	"github.com/dukerupert/sponsor/internal/domain"
)

// Gateway abstracts the recurring-billing provider.
// Implementations: RazorpayProvider, MockGateway.
//
// Every method that performs I/O is bounded by the provider's timeout. A
// failed or timed-out call returns a *GatewayError and callers must leave
// local state untouched.
type Gateway interface {
	// CreateSubscription creates a gateway plan for the requested amount and
	// cadence, then a subscription on it. The returned Checkout carries what
	// the client needs to open the gateway's checkout.
	CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Checkout, error)

	// CancelSubscription cancels immediately, or at the end of the current
	// billing cycle when atCycleEnd is true.
	CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) (*SubscriptionSnapshot, error)

	// PauseSubscription stops charging until resumed.
	PauseSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// ResumeSubscription restarts charging on a paused subscription.
	ResumeSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// FetchSubscription returns the gateway's authoritative view of a subscription.
	FetchSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// VerifyPaymentSignature checks a checkout signature over "orderID|paymentID".
	// It never fails; false means the caller is not authenticated.
	VerifyPaymentSignature(orderID, paymentID, signature string) bool

	// VerifySubscriptionSignature checks a subscription checkout signature
	// over "paymentID|subscriptionID".
	VerifySubscriptionSignature(subscriptionID, paymentID, signature string) bool

	// VerifyWebhookSignature checks the signature header of a webhook body.
	VerifyWebhookSignature(body []byte, signature string) bool
}

// CreateSubscriptionParams contains parameters for creating a subscription.
type CreateSubscriptionParams struct {
	// SponsorshipID, SponsorID and BeneficiaryID are stored as gateway notes
	// so events can be traced back without a local lookup.
	SponsorshipID string
	SponsorID     string
	BeneficiaryID string

	PlanType      string
	IntervalUnit  string // domain.IntervalMonthly etc.
	IntervalCount int

	AmountPaise int64
	Currency    string

	// TotalCount is the number of billing cycles to authorize. Zero uses the
	// provider default.
	TotalCount int
}

// Checkout is returned to the sponsor to complete the first payment.
type Checkout struct {
	SubscriptionID string `json:"subscription_id"`
	PlanID         string `json:"plan_id"`
	KeyID          string `json:"key"`
	ShortURL       string `json:"short_url,omitempty"`
	AmountPaise    int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
}

// Gateway subscription statuses.
const (
	GatewayStatusCreated       = "created"
	GatewayStatusAuthenticated = "authenticated"
	GatewayStatusActive        = "active"
	GatewayStatusPending       = "pending"
	GatewayStatusHalted        = "halted"
	GatewayStatusPaused        = "paused"
	GatewayStatusCancelled     = "cancelled"
	GatewayStatusCompleted     = "completed"
	GatewayStatusExpired       = "expired"
)

// SubscriptionSnapshot is the gateway's state of a subscription at fetch time.
type SubscriptionSnapshot struct {
	ID             string
	PlanID         string
	Status         string
	PaidCount      int
	TotalCount     int
	RemainingCount int
	StartAt        *time.Time
	CurrentStart   *time.Time
	CurrentEnd     *time.Time
	ChargeAt       *time.Time
	EndedAt        *time.Time
}

// LocalStatus maps the gateway status onto the sponsorship state machine.
// ok is false for statuses this service does not know.
func (s *SubscriptionSnapshot) LocalStatus() (status domain.SponsorshipStatus, ok bool) {
	switch s.Status {
	case GatewayStatusCreated, GatewayStatusAuthenticated:
		return domain.SponsorshipPending, true
	case GatewayStatusActive, GatewayStatusPending:
		// "pending" means a charge is being retried; the subscription is live.
		return domain.SponsorshipActive, true
	case GatewayStatusHalted, GatewayStatusPaused:
		return domain.SponsorshipPaused, true
	case GatewayStatusCancelled:
		return domain.SponsorshipCancelled, true
	case GatewayStatusCompleted, GatewayStatusExpired:
		return domain.SponsorshipExpired, true
	default:
		return "", false
	}
}

// NextPaymentDate is the next scheduled charge, falling back to the end of
// the current cycle.
func (s *SubscriptionSnapshot) NextPaymentDate() *time.Time {
	if s.ChargeAt != nil {
		return s.ChargeAt
	}
	return s.CurrentEnd
}
