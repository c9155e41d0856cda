package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const planColumns = `plan_type, min_amount_paise, max_amount_paise, suggested_amount_paise,
    interval_count, interval_unit, is_active, display_order, created_at, updated_at`

func scanPlan(row pgx.Row) (SubscriptionPlan, error) {
	var i SubscriptionPlan
	err := row.Scan(
		&i.PlanType,
		&i.MinAmountPaise,
		&i.MaxAmountPaise,
		&i.SuggestedAmountPaise,
		&i.IntervalCount,
		&i.IntervalUnit,
		&i.IsActive,
		&i.DisplayOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActivePlans = `-- name: ListActivePlans :many
SELECT ` + planColumns + `
FROM subscription_plans
WHERE is_active
ORDER BY display_order, plan_type`

func (q *Queries) ListActivePlans(ctx context.Context) ([]SubscriptionPlan, error) {
	rows, err := q.db.Query(ctx, listActivePlans)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SubscriptionPlan{}
	for rows.Next() {
		i, err := scanPlan(rows)
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

const getPlan = `-- name: GetPlan :one
SELECT ` + planColumns + `
FROM subscription_plans
WHERE plan_type = $1`

func (q *Queries) GetPlan(ctx context.Context, planType string) (SubscriptionPlan, error) {
	return scanPlan(q.db.QueryRow(ctx, getPlan, planType))
}

const upsertPlan = `-- name: UpsertPlan :one
INSERT INTO subscription_plans (
    plan_type, min_amount_paise, max_amount_paise, suggested_amount_paise,
    interval_count, interval_unit, is_active, display_order
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (plan_type) DO UPDATE
SET min_amount_paise = EXCLUDED.min_amount_paise,
    max_amount_paise = EXCLUDED.max_amount_paise,
    suggested_amount_paise = EXCLUDED.suggested_amount_paise,
    interval_count = EXCLUDED.interval_count,
    interval_unit = EXCLUDED.interval_unit,
    is_active = EXCLUDED.is_active,
    display_order = EXCLUDED.display_order,
    updated_at = NOW()
RETURNING ` + planColumns

type UpsertPlanParams struct {
	PlanType             string
	MinAmountPaise       int64
	MaxAmountPaise       int64
	SuggestedAmountPaise int64
	IntervalCount        int32
	IntervalUnit         string
	IsActive             bool
	DisplayOrder         int32
}

func (q *Queries) UpsertPlan(ctx context.Context, arg UpsertPlanParams) (SubscriptionPlan, error) {
	row := q.db.QueryRow(ctx, upsertPlan,
		arg.PlanType,
		arg.MinAmountPaise,
		arg.MaxAmountPaise,
		arg.SuggestedAmountPaise,
		arg.IntervalCount,
		arg.IntervalUnit,
		arg.IsActive,
		arg.DisplayOrder,
	)
	return scanPlan(row)
}
