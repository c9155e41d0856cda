package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getBeneficiary = `-- name: GetBeneficiary :one
SELECT id, name, is_sponsored, sponsor_id, sponsored_at, created_at, updated_at
FROM beneficiaries
WHERE id = $1`

func (q *Queries) GetBeneficiary(ctx context.Context, id pgtype.UUID) (Beneficiary, error) {
	row := q.db.QueryRow(ctx, getBeneficiary, id)
	var i Beneficiary
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.IsSponsored,
		&i.SponsorID,
		&i.SponsoredAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const markBeneficiarySponsored = `-- name: MarkBeneficiarySponsored :execrows
UPDATE beneficiaries b
SET is_sponsored = TRUE,
    sponsor_id = $2,
    sponsored_at = NOW(),
    updated_at = NOW()
WHERE b.id = $1
  AND (
    NOT b.is_sponsored
    OR NOT EXISTS (
        SELECT 1 FROM sponsorships s
        WHERE s.beneficiary_id = b.id
          AND s.status IN ('pending', 'active', 'paused')
          AND s.id <> $3
    )
  )`

type MarkBeneficiarySponsoredParams struct {
	ID            pgtype.UUID
	SponsorID     pgtype.Text
	SponsorshipID pgtype.UUID
}

// MarkBeneficiarySponsored claims the beneficiary for SponsorshipID. A flag
// left set by a sponsorship that is no longer live does not block the claim.
func (q *Queries) MarkBeneficiarySponsored(ctx context.Context, arg MarkBeneficiarySponsoredParams) (int64, error) {
	result, err := q.db.Exec(ctx, markBeneficiarySponsored, arg.ID, arg.SponsorID, arg.SponsorshipID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const clearBeneficiarySponsorship = `-- name: ClearBeneficiarySponsorship :execrows
UPDATE beneficiaries b
SET is_sponsored = FALSE,
    sponsor_id = NULL,
    sponsored_at = NULL,
    updated_at = NOW()
WHERE b.id = $1
  AND b.is_sponsored
  AND NOT EXISTS (
    SELECT 1 FROM sponsorships s
    WHERE s.beneficiary_id = b.id
      AND s.status IN ('pending', 'active', 'paused')
  )`

// ClearBeneficiarySponsorship never clears a beneficiary that is held by a
// live sponsorship.
func (q *Queries) ClearBeneficiarySponsorship(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, clearBeneficiarySponsorship, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const releaseStrandedBeneficiaries = `-- name: ReleaseStrandedBeneficiaries :execrows
UPDATE beneficiaries b
SET is_sponsored = FALSE,
    sponsor_id = NULL,
    sponsored_at = NULL,
    updated_at = NOW()
WHERE b.is_sponsored
  AND NOT EXISTS (
    SELECT 1 FROM sponsorships s
    WHERE s.beneficiary_id = b.id
      AND s.status IN ('pending', 'active', 'paused')
  )`

func (q *Queries) ReleaseStrandedBeneficiaries(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, releaseStrandedBeneficiaries)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
