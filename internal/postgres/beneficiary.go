package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/sponsor/internal/domain"
	"github.com/dukerupert/sponsor/internal/repository"
	"github.com/google/uuid"
)

// BeneficiaryStore implements domain.BeneficiaryStore using PostgreSQL.
type BeneficiaryStore struct {
	repo repository.Querier
}

// Compile-time check to ensure BeneficiaryStore implements domain.BeneficiaryStore.
var _ domain.BeneficiaryStore = (*BeneficiaryStore)(nil)

// NewBeneficiaryStore creates a new BeneficiaryStore instance.
func NewBeneficiaryStore(repo repository.Querier) *BeneficiaryStore {
	return &BeneficiaryStore{repo: repo}
}

// MarkSponsored flags the beneficiary as held by sponsorshipID.
func (s *BeneficiaryStore) MarkSponsored(ctx context.Context, beneficiaryID uuid.UUID, sponsorID string, sponsorshipID uuid.UUID) error {
	const op = "beneficiary.mark_sponsored"

	n, err := s.repo.MarkBeneficiarySponsored(ctx, repository.MarkBeneficiarySponsoredParams{
		ID:            UUID(beneficiaryID),
		SponsorID:     Text(sponsorID),
		SponsorshipID: UUID(sponsorshipID),
	})
	if err != nil {
		return fmt.Errorf("failed to mark beneficiary sponsored: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either the beneficiary is missing or it is held.
	if _, err := s.repo.GetBeneficiary(ctx, UUID(beneficiaryID)); err != nil {
		if IsNoRows(err) {
			return domain.NotFound(op, "beneficiary", beneficiaryID.String())
		}
		return fmt.Errorf("failed to get beneficiary: %w", err)
	}
	return domain.Conflict(op, "Beneficiary is already sponsored")
}

// ClearSponsorship releases the beneficiary unless a live sponsorship holds it.
func (s *BeneficiaryStore) ClearSponsorship(ctx context.Context, beneficiaryID uuid.UUID) error {
	if _, err := s.repo.ClearBeneficiarySponsorship(ctx, UUID(beneficiaryID)); err != nil {
		return fmt.Errorf("failed to clear beneficiary sponsorship: %w", err)
	}
	return nil
}

// ReleaseStranded clears flags left behind by sponsorships that are no longer live.
func (s *BeneficiaryStore) ReleaseStranded(ctx context.Context) (int64, error) {
	n, err := s.repo.ReleaseStrandedBeneficiaries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to release stranded beneficiaries: %w", err)
	}
	return n, nil
}
