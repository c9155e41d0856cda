package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

//go:generate mockgen -source=querier.go -destination=mock_querier.go -package=repository

type Querier interface {
	ClearBeneficiarySponsorship(ctx context.Context, id pgtype.UUID) (int64, error)
	CreateSponsorship(ctx context.Context, arg CreateSponsorshipParams) (Sponsorship, error)
	GetBeneficiary(ctx context.Context, id pgtype.UUID) (Beneficiary, error)
	GetPaymentByRazorpayID(ctx context.Context, razorpayPaymentID string) (SponsorshipPayment, error)
	GetPlan(ctx context.Context, planType string) (SubscriptionPlan, error)
	GetSponsorship(ctx context.Context, id pgtype.UUID) (Sponsorship, error)
	GetSponsorshipBySubscriptionID(ctx context.Context, razorpaySubscriptionID string) (Sponsorship, error)
	IncrementSponsorshipFailures(ctx context.Context, id pgtype.UUID) (int32, error)
	InsertPayment(ctx context.Context, arg InsertPaymentParams) (SponsorshipPayment, error)
	ListActivePlans(ctx context.Context) ([]SubscriptionPlan, error)
	ListPaymentsBySponsorship(ctx context.Context, sponsorshipID pgtype.UUID) ([]SponsorshipPayment, error)
	ListSponsorshipsBySponsor(ctx context.Context, sponsorID string) ([]Sponsorship, error)
	ListStalePendingSponsorships(ctx context.Context, arg ListStalePendingSponsorshipsParams) ([]Sponsorship, error)
	ListSyncableSponsorships(ctx context.Context) ([]Sponsorship, error)
	MarkBeneficiarySponsored(ctx context.Context, arg MarkBeneficiarySponsoredParams) (int64, error)
	MarkWebhookEventFailed(ctx context.Context, arg MarkWebhookEventFailedParams) error
	MarkWebhookEventProcessed(ctx context.Context, arg MarkWebhookEventProcessedParams) error
	ReleaseStrandedBeneficiaries(ctx context.Context) (int64, error)
	ResetSponsorshipFailures(ctx context.Context, id pgtype.UUID) error
	SetPaymentRefund(ctx context.Context, arg SetPaymentRefundParams) (int64, error)
	SetSponsorshipSubscription(ctx context.Context, arg SetSponsorshipSubscriptionParams) (Sponsorship, error)
	TransitionSponsorship(ctx context.Context, arg TransitionSponsorshipParams) (int64, error)
	UpsertPlan(ctx context.Context, arg UpsertPlanParams) (SubscriptionPlan, error)
	UpsertWebhookEvent(ctx context.Context, arg UpsertWebhookEventParams) (WebhookEvent, error)
}

var _ Querier = (*Queries)(nil)
