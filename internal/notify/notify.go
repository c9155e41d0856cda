// Package notify dispatches sponsorship notifications to whatever delivers
// them to sponsors. Dispatch is fire-and-forget: failures are logged here
// and never reach the caller.
package notify

import (
	"context"
	"time"
)

// Kind identifies a notification type. It is also the subject suffix.
type Kind string

const (
	KindSponsorshipActivated Kind = "sponsorship.activated"
	KindSponsorshipCancelled Kind = "sponsorship.cancelled"
	KindPaymentFailed        Kind = "payment.failed"
)

// Notification is the payload sent for one lifecycle event.
type Notification struct {
	Kind          Kind              `json:"kind"`
	SponsorshipID string            `json:"sponsorship_id"`
	SponsorID     string            `json:"sponsor_id"`
	BeneficiaryID string            `json:"beneficiary_id"`
	Detail        map[string]string `json:"detail,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// Notifier sends notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}
