package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertWebhookEvent = `-- name: UpsertWebhookEvent :one
INSERT INTO webhook_events (provider, provider_event_id, event_type, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (provider, provider_event_id) DO UPDATE
SET attempts = webhook_events.attempts + 1
RETURNING id, provider, provider_event_id, event_type, payload, attempts, processed_at, processing_error, received_at`

type UpsertWebhookEventParams struct {
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         []byte
}

// UpsertWebhookEvent records a delivery. A redelivery bumps attempts and
// returns the existing row, including its processed_at.
func (q *Queries) UpsertWebhookEvent(ctx context.Context, arg UpsertWebhookEventParams) (WebhookEvent, error) {
	row := q.db.QueryRow(ctx, upsertWebhookEvent,
		arg.Provider,
		arg.ProviderEventID,
		arg.EventType,
		arg.Payload,
	)
	var i WebhookEvent
	err := row.Scan(
		&i.ID,
		&i.Provider,
		&i.ProviderEventID,
		&i.EventType,
		&i.Payload,
		&i.Attempts,
		&i.ProcessedAt,
		&i.ProcessingError,
		&i.ReceivedAt,
	)
	return i, err
}

const markWebhookEventProcessed = `-- name: MarkWebhookEventProcessed :exec
UPDATE webhook_events
SET processed_at = NOW(),
    processing_error = $2
WHERE id = $1`

type MarkWebhookEventProcessedParams struct {
	ID              pgtype.UUID
	ProcessingError pgtype.Text
}

func (q *Queries) MarkWebhookEventProcessed(ctx context.Context, arg MarkWebhookEventProcessedParams) error {
	_, err := q.db.Exec(ctx, markWebhookEventProcessed, arg.ID, arg.ProcessingError)
	return err
}

const markWebhookEventFailed = `-- name: MarkWebhookEventFailed :exec
UPDATE webhook_events
SET processing_error = $2
WHERE id = $1 AND processed_at IS NULL`

type MarkWebhookEventFailedParams struct {
	ID              pgtype.UUID
	ProcessingError pgtype.Text
}

func (q *Queries) MarkWebhookEventFailed(ctx context.Context, arg MarkWebhookEventFailedParams) error {
	_, err := q.db.Exec(ctx, markWebhookEventFailed, arg.ID, arg.ProcessingError)
	return err
}
