package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const sponsorshipColumns = `id, sponsor_id, beneficiary_id, plan_type, amount_paise, currency, status,
    razorpay_subscription_id, razorpay_plan_id, next_payment_date, start_date, end_date,
    failed_payment_count, cancelled_at, cancellation_reason, created_at, updated_at`

func scanSponsorship(row pgx.Row) (Sponsorship, error) {
	var i Sponsorship
	err := row.Scan(
		&i.ID,
		&i.SponsorID,
		&i.BeneficiaryID,
		&i.PlanType,
		&i.AmountPaise,
		&i.Currency,
		&i.Status,
		&i.RazorpaySubscriptionID,
		&i.RazorpayPlanID,
		&i.NextPaymentDate,
		&i.StartDate,
		&i.EndDate,
		&i.FailedPaymentCount,
		&i.CancelledAt,
		&i.CancellationReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectSponsorships(rows pgx.Rows, err error) ([]Sponsorship, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Sponsorship{}
	for rows.Next() {
		i, err := scanSponsorship(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSponsorship = `-- name: CreateSponsorship :one
INSERT INTO sponsorships (sponsor_id, beneficiary_id, plan_type, amount_paise, currency, status)
VALUES ($1, $2, $3, $4, $5, 'pending')
RETURNING ` + sponsorshipColumns

type CreateSponsorshipParams struct {
	SponsorID     string
	BeneficiaryID pgtype.UUID
	PlanType      string
	AmountPaise   int64
	Currency      string
}

func (q *Queries) CreateSponsorship(ctx context.Context, arg CreateSponsorshipParams) (Sponsorship, error) {
	row := q.db.QueryRow(ctx, createSponsorship,
		arg.SponsorID,
		arg.BeneficiaryID,
		arg.PlanType,
		arg.AmountPaise,
		arg.Currency,
	)
	return scanSponsorship(row)
}

const setSponsorshipSubscription = `-- name: SetSponsorshipSubscription :one
UPDATE sponsorships
SET razorpay_subscription_id = $2,
    razorpay_plan_id = $3,
    updated_at = NOW()
WHERE id = $1 AND razorpay_subscription_id IS NULL
RETURNING ` + sponsorshipColumns

type SetSponsorshipSubscriptionParams struct {
	ID                     pgtype.UUID
	RazorpaySubscriptionID pgtype.Text
	RazorpayPlanID         pgtype.Text
}

func (q *Queries) SetSponsorshipSubscription(ctx context.Context, arg SetSponsorshipSubscriptionParams) (Sponsorship, error) {
	row := q.db.QueryRow(ctx, setSponsorshipSubscription, arg.ID, arg.RazorpaySubscriptionID, arg.RazorpayPlanID)
	return scanSponsorship(row)
}

const getSponsorship = `-- name: GetSponsorship :one
SELECT ` + sponsorshipColumns + `
FROM sponsorships
WHERE id = $1`

func (q *Queries) GetSponsorship(ctx context.Context, id pgtype.UUID) (Sponsorship, error) {
	return scanSponsorship(q.db.QueryRow(ctx, getSponsorship, id))
}

const getSponsorshipBySubscriptionID = `-- name: GetSponsorshipBySubscriptionID :one
SELECT ` + sponsorshipColumns + `
FROM sponsorships
WHERE razorpay_subscription_id = $1`

func (q *Queries) GetSponsorshipBySubscriptionID(ctx context.Context, razorpaySubscriptionID string) (Sponsorship, error) {
	return scanSponsorship(q.db.QueryRow(ctx, getSponsorshipBySubscriptionID, razorpaySubscriptionID))
}

const listSponsorshipsBySponsor = `-- name: ListSponsorshipsBySponsor :many
SELECT ` + sponsorshipColumns + `
FROM sponsorships
WHERE sponsor_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListSponsorshipsBySponsor(ctx context.Context, sponsorID string) ([]Sponsorship, error) {
	return collectSponsorships(q.db.Query(ctx, listSponsorshipsBySponsor, sponsorID))
}

const listSyncableSponsorships = `-- name: ListSyncableSponsorships :many
SELECT ` + sponsorshipColumns + `
FROM sponsorships
WHERE status IN ('pending', 'active', 'paused')
  AND razorpay_subscription_id IS NOT NULL
ORDER BY created_at`

func (q *Queries) ListSyncableSponsorships(ctx context.Context) ([]Sponsorship, error) {
	return collectSponsorships(q.db.Query(ctx, listSyncableSponsorships))
}

const listStalePendingSponsorships = `-- name: ListStalePendingSponsorships :many
SELECT ` + sponsorshipColumns + `
FROM sponsorships
WHERE status = 'pending'
  AND created_at < $1
  AND ($2::text IS NULL OR sponsor_id = $2)
ORDER BY created_at`

type ListStalePendingSponsorshipsParams struct {
	CreatedBefore pgtype.Timestamptz
	SponsorID     pgtype.Text
}

func (q *Queries) ListStalePendingSponsorships(ctx context.Context, arg ListStalePendingSponsorshipsParams) ([]Sponsorship, error) {
	return collectSponsorships(q.db.Query(ctx, listStalePendingSponsorships, arg.CreatedBefore, arg.SponsorID))
}

const transitionSponsorship = `-- name: TransitionSponsorship :execrows
UPDATE sponsorships
SET status = $2,
    next_payment_date = COALESCE($4, next_payment_date),
    start_date = COALESCE(start_date, $5),
    end_date = COALESCE($6, end_date),
    cancelled_at = CASE WHEN $2 = 'cancelled' THEN COALESCE(cancelled_at, NOW()) ELSE cancelled_at END,
    cancellation_reason = COALESCE($7, cancellation_reason),
    updated_at = NOW()
WHERE id = $1 AND status = ANY($3::text[])`

type TransitionSponsorshipParams struct {
	ID                 pgtype.UUID
	Status             string
	ExpectedStatuses   []string
	NextPaymentDate    pgtype.Timestamptz
	StartDate          pgtype.Timestamptz
	EndDate            pgtype.Timestamptz
	CancellationReason pgtype.Text
}

// TransitionSponsorship writes the new status only if the row is still in
// one of ExpectedStatuses. Zero rows affected means the guard was stale.
func (q *Queries) TransitionSponsorship(ctx context.Context, arg TransitionSponsorshipParams) (int64, error) {
	result, err := q.db.Exec(ctx, transitionSponsorship,
		arg.ID,
		arg.Status,
		arg.ExpectedStatuses,
		arg.NextPaymentDate,
		arg.StartDate,
		arg.EndDate,
		arg.CancellationReason,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const incrementSponsorshipFailures = `-- name: IncrementSponsorshipFailures :one
UPDATE sponsorships
SET failed_payment_count = failed_payment_count + 1,
    updated_at = NOW()
WHERE id = $1
RETURNING failed_payment_count`

func (q *Queries) IncrementSponsorshipFailures(ctx context.Context, id pgtype.UUID) (int32, error) {
	row := q.db.QueryRow(ctx, incrementSponsorshipFailures, id)
	var failedPaymentCount int32
	err := row.Scan(&failedPaymentCount)
	return failedPaymentCount, err
}

const resetSponsorshipFailures = `-- name: ResetSponsorshipFailures :exec
UPDATE sponsorships
SET failed_payment_count = 0,
    updated_at = NOW()
WHERE id = $1 AND failed_payment_count <> 0`

func (q *Queries) ResetSponsorshipFailures(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, resetSponsorshipFailures, id)
	return err
}
