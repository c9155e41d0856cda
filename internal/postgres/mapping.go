package postgres

import (
	"github.com/dukerupert/sponsor/internal/billing"
	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/repository"
)

// SponsorshipFromRow converts a repository Sponsorship to the domain type.
func SponsorshipFromRow(r repository.Sponsorship) *domain.Sponsorship {
	return &domain.Sponsorship{
		ID:                     FromUUID(r.ID),
		SponsorID:              r.SponsorID,
		BeneficiaryID:          FromUUID(r.BeneficiaryID),
		PlanType:               r.PlanType,
		Amount:                 billing.FromPaise(r.AmountPaise),
		Currency:               r.Currency,
		Status:                 domain.SponsorshipStatus(r.Status),
		RazorpaySubscriptionID: r.RazorpaySubscriptionID.String,
		RazorpayPlanID:         r.RazorpayPlanID.String,
		NextPaymentDate:        TimePtr(r.NextPaymentDate),
		StartDate:              TimePtr(r.StartDate),
		EndDate:                TimePtr(r.EndDate),
		FailedPaymentCount:     int(r.FailedPaymentCount),
		CancelledAt:            TimePtr(r.CancelledAt),
		CancellationReason:     r.CancellationReason.String,
		CreatedAt:              r.CreatedAt.Time,
		UpdatedAt:              r.UpdatedAt.Time,
	}
}

// PaymentFromRow converts a repository SponsorshipPayment to the domain type.
func PaymentFromRow(r repository.SponsorshipPayment) *domain.Payment {
	return &domain.Payment{
		ID:                     FromUUID(r.ID),
		SponsorshipID:          FromUUID(r.SponsorshipID),
		SponsorID:              r.SponsorID,
		BeneficiaryID:          FromUUID(r.BeneficiaryID),
		RazorpayPaymentID:      r.RazorpayPaymentID,
		RazorpaySubscriptionID: r.RazorpaySubscriptionID,
		RazorpayOrderID:        r.RazorpayOrderID.String,
		Amount:                 billing.FromPaise(r.AmountPaise),
		Currency:               r.Currency,
		PaymentMethod:          r.PaymentMethod,
		Status:                 domain.PaymentStatus(r.Status),
		PaymentDate:            r.PaymentDate.Time,
		DueDate:                TimePtr(r.DueDate),
		PaidAt:                 TimePtr(r.PaidAt),
		RefundID:               r.RefundID.String,
		FailureReason:          r.FailureReason.String,
		CreatedAt:              r.CreatedAt.Time,
	}
}

// PlanFromRow converts a repository SubscriptionPlan to the domain type.
func PlanFromRow(r repository.SubscriptionPlan) *domain.Plan {
	return &domain.Plan{
		PlanType:        r.PlanType,
		MinAmount:       billing.FromPaise(r.MinAmountPaise),
		MaxAmount:       billing.FromPaise(r.MaxAmountPaise),
		SuggestedAmount: billing.FromPaise(r.SuggestedAmountPaise),
		IntervalCount:   int(r.IntervalCount),
		IntervalUnit:    r.IntervalUnit,
		IsActive:        r.IsActive,
		DisplayOrder:    int(r.DisplayOrder),
	}
}
