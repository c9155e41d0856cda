package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Beneficiary struct {
	ID          pgtype.UUID
	Name        string
	IsSponsored bool
	SponsorID   pgtype.Text
	SponsoredAt pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Sponsorship struct {
	ID                     pgtype.UUID
	SponsorID              string
	BeneficiaryID          pgtype.UUID
	PlanType               string
	AmountPaise            int64
	Currency               string
	Status                 string
	RazorpaySubscriptionID pgtype.Text
	RazorpayPlanID         pgtype.Text
	NextPaymentDate        pgtype.Timestamptz
	StartDate              pgtype.Timestamptz
	EndDate                pgtype.Timestamptz
	FailedPaymentCount     int32
	CancelledAt            pgtype.Timestamptz
	CancellationReason     pgtype.Text
	CreatedAt              pgtype.Timestamptz
	UpdatedAt              pgtype.Timestamptz
}

type SponsorshipPayment struct {
	ID                     pgtype.UUID
	SponsorshipID          pgtype.UUID
	SponsorID              string
	BeneficiaryID          pgtype.UUID
	RazorpayPaymentID      string
	RazorpaySubscriptionID string
	RazorpayOrderID        pgtype.Text
	AmountPaise            int64
	Currency               string
	PaymentMethod          string
	Status                 string
	PaymentDate            pgtype.Timestamptz
	DueDate                pgtype.Timestamptz
	PaidAt                 pgtype.Timestamptz
	RefundID               pgtype.Text
	FailureReason          pgtype.Text
	CreatedAt              pgtype.Timestamptz
}

type SubscriptionPlan struct {
	PlanType             string
	MinAmountPaise       int64
	MaxAmountPaise       int64
	SuggestedAmountPaise int64
	IntervalCount        int32
	IntervalUnit         string
	IsActive             bool
	DisplayOrder         int32
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

type WebhookEvent struct {
	ID              pgtype.UUID
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         []byte
	Attempts        int32
	ProcessedAt     pgtype.Timestamptz
	ProcessingError pgtype.Text
	ReceivedAt      pgtype.Timestamptz
}
