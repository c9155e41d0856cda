package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the outcome of one billing-cycle attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// IsTerminal reports whether the ledger row is frozen apart from its refund id.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentRefunded || s == PaymentCancelled
}

// Payment is one ledger row. RazorpayPaymentID is unique across the ledger.
type Payment struct {
	ID                     uuid.UUID       `json:"id"`
	SponsorshipID          uuid.UUID       `json:"sponsorship_id"`
	SponsorID              string          `json:"sponsor_id"`
	BeneficiaryID          uuid.UUID       `json:"beneficiary_id"`
	RazorpayPaymentID      string          `json:"razorpay_payment_id"`
	RazorpaySubscriptionID string          `json:"razorpay_subscription_id"`
	RazorpayOrderID        string          `json:"razorpay_order_id,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	PaymentMethod          string          `json:"payment_method,omitempty"`
	Status                 PaymentStatus   `json:"status"`
	PaymentDate            time.Time       `json:"payment_date"`
	DueDate                *time.Time      `json:"due_date,omitempty"`
	PaidAt                 *time.Time      `json:"paid_at,omitempty"`
	RefundID               string          `json:"refund_id,omitempty"`
	FailureReason          string          `json:"failure_reason,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}
