package domain

import (
	"context"

	"github.com/google/uuid"
)

// BeneficiaryStore is the availability contract of the family-member store.
// A beneficiary is flagged while a live sponsorship holds it.
type BeneficiaryStore interface {
	// MarkSponsored flags the beneficiary for sponsorshipID. Returns a
	// Conflict error if another live sponsorship already holds it and
	// NotFound if the beneficiary does not exist.
	MarkSponsored(ctx context.Context, beneficiaryID uuid.UUID, sponsorID string, sponsorshipID uuid.UUID) error

	// ClearSponsorship removes the flag unless a live sponsorship still
	// holds the beneficiary. Clearing an unflagged beneficiary is a no-op.
	ClearSponsorship(ctx context.Context, beneficiaryID uuid.UUID) error

	// ReleaseStranded clears every flag not backed by a live sponsorship and
	// returns how many were cleared.
	ReleaseStranded(ctx context.Context) (int64, error)
}
