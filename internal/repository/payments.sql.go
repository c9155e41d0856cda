package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, sponsorship_id, sponsor_id, beneficiary_id, razorpay_payment_id,
    razorpay_subscription_id, razorpay_order_id, amount_paise, currency, payment_method, status,
    payment_date, due_date, paid_at, refund_id, failure_reason, created_at`

func scanPayment(row pgx.Row) (SponsorshipPayment, error) {
	var i SponsorshipPayment
	err := row.Scan(
		&i.ID,
		&i.SponsorshipID,
		&i.SponsorID,
		&i.BeneficiaryID,
		&i.RazorpayPaymentID,
		&i.RazorpaySubscriptionID,
		&i.RazorpayOrderID,
		&i.AmountPaise,
		&i.Currency,
		&i.PaymentMethod,
		&i.Status,
		&i.PaymentDate,
		&i.DueDate,
		&i.PaidAt,
		&i.RefundID,
		&i.FailureReason,
		&i.CreatedAt,
	)
	return i, err
}

const insertPayment = `-- name: InsertPayment :one
INSERT INTO sponsorship_payments (
    sponsorship_id, sponsor_id, beneficiary_id, razorpay_payment_id, razorpay_subscription_id,
    razorpay_order_id, amount_paise, currency, payment_method, status,
    payment_date, due_date, paid_at, failure_reason
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
)
ON CONFLICT (razorpay_payment_id) DO NOTHING
RETURNING ` + paymentColumns

type InsertPaymentParams struct {
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
	FailureReason          pgtype.Text
}

// InsertPayment returns pgx.ErrNoRows when a row with the same
// razorpay_payment_id already exists.
func (q *Queries) InsertPayment(ctx context.Context, arg InsertPaymentParams) (SponsorshipPayment, error) {
	row := q.db.QueryRow(ctx, insertPayment,
		arg.SponsorshipID,
		arg.SponsorID,
		arg.BeneficiaryID,
		arg.RazorpayPaymentID,
		arg.RazorpaySubscriptionID,
		arg.RazorpayOrderID,
		arg.AmountPaise,
		arg.Currency,
		arg.PaymentMethod,
		arg.Status,
		arg.PaymentDate,
		arg.DueDate,
		arg.PaidAt,
		arg.FailureReason,
	)
	return scanPayment(row)
}

const getPaymentByRazorpayID = `-- name: GetPaymentByRazorpayID :one
SELECT ` + paymentColumns + `
FROM sponsorship_payments
WHERE razorpay_payment_id = $1`

func (q *Queries) GetPaymentByRazorpayID(ctx context.Context, razorpayPaymentID string) (SponsorshipPayment, error) {
	return scanPayment(q.db.QueryRow(ctx, getPaymentByRazorpayID, razorpayPaymentID))
}

const listPaymentsBySponsorship = `-- name: ListPaymentsBySponsorship :many
SELECT ` + paymentColumns + `
FROM sponsorship_payments
WHERE sponsorship_id = $1
ORDER BY payment_date DESC, created_at DESC`

func (q *Queries) ListPaymentsBySponsorship(ctx context.Context, sponsorshipID pgtype.UUID) ([]SponsorshipPayment, error) {
	rows, err := q.db.Query(ctx, listPaymentsBySponsorship, sponsorshipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SponsorshipPayment{}
	for rows.Next() {
		i, err := scanPayment(rows)
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

const setPaymentRefund = `-- name: SetPaymentRefund :execrows
UPDATE sponsorship_payments
SET refund_id = $2
WHERE razorpay_payment_id = $1 AND refund_id IS NULL`

type SetPaymentRefundParams struct {
	RazorpayPaymentID string
	RefundID          string
}

func (q *Queries) SetPaymentRefund(ctx context.Context, arg SetPaymentRefundParams) (int64, error) {
	result, err := q.db.Exec(ctx, setPaymentRefund, arg.RazorpayPaymentID, arg.RefundID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
