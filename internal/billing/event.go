package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Webhook event names.
const (
	EventSubscriptionAuthenticated = "subscription.authenticated"
	EventSubscriptionActivated     = "subscription.activated"
	EventSubscriptionCharged       = "subscription.charged"
	EventSubscriptionPending       = "subscription.pending"
	EventSubscriptionHalted        = "subscription.halted"
	EventSubscriptionPaused        = "subscription.paused"
	EventSubscriptionResumed       = "subscription.resumed"
	EventSubscriptionCancelled     = "subscription.cancelled"
	EventSubscriptionCompleted     = "subscription.completed"
	EventSubscriptionUpdated       = "subscription.updated"
	EventPaymentFailed             = "payment.failed"
	EventRefundProcessed           = "refund.processed"
)

// Event is a parsed webhook event. The set of implementations is closed:
// SubscriptionStatusEvent, SubscriptionCharged, PaymentFailed,
// RefundProcessed and UnknownEvent.
type Event interface {
	Meta() EventMeta
	isEvent()
}

// EventMeta is the envelope shared by every event.
type EventMeta struct {
	ID        string
	Name      string
	AccountID string
	CreatedAt time.Time
}

func (m EventMeta) Meta() EventMeta { return m }

// SubscriptionStatusEvent asserts the subscription's current gateway status.
type SubscriptionStatusEvent struct {
	EventMeta
	Subscription SubscriptionEntity
}

// SubscriptionCharged reports a successful recurring charge.
type SubscriptionCharged struct {
	EventMeta
	Subscription SubscriptionEntity
	Payment      PaymentEntity
}

// PaymentFailed reports a failed charge attempt.
type PaymentFailed struct {
	EventMeta
	Payment PaymentEntity
	// Subscription is present when the gateway included it.
	Subscription *SubscriptionEntity
}

// RefundProcessed reports a completed refund.
type RefundProcessed struct {
	EventMeta
	Refund  RefundEntity
	Payment *PaymentEntity
}

// UnknownEvent keeps events this service does not handle, for forward
// compatibility. They are acknowledged and logged.
type UnknownEvent struct {
	EventMeta
	Payload json.RawMessage
}

func (SubscriptionStatusEvent) isEvent() {}
func (SubscriptionCharged) isEvent()     {}
func (PaymentFailed) isEvent()           {}
func (RefundProcessed) isEvent()         {}
func (UnknownEvent) isEvent()            {}

type envelope struct {
	Entity    string `json:"entity"`
	AccountID string `json:"account_id"`
	Event     string `json:"event"`
	CreatedAt int64  `json:"created_at"`
	Payload   struct {
		Subscription *struct {
			Entity SubscriptionEntity `json:"entity"`
		} `json:"subscription"`
		Payment *struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
		Refund *struct {
			Entity RefundEntity `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// EventID returns the provider event id, or a content hash when the
// provider did not send one so redeliveries still deduplicate.
func EventID(header string, body []byte) string {
	if header != "" {
		return header
	}
	sum := sha256.Sum256(body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// ParseEvent decodes an authentic webhook body into its Event variant.
// Errors wrap ErrMalformedEvent.
func ParseEvent(eventID string, body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedEvent)
	}

	meta := EventMeta{
		ID:        eventID,
		Name:      env.Event,
		AccountID: env.AccountID,
	}
	if env.CreatedAt > 0 {
		meta.CreatedAt = time.Unix(env.CreatedAt, 0).UTC()
	}

	switch env.Event {
	case EventSubscriptionCharged:
		if env.Payload.Subscription == nil || env.Payload.Payment == nil {
			return nil, fmt.Errorf("%w: %s without subscription or payment", ErrMalformedEvent, env.Event)
		}
		return SubscriptionCharged{
			EventMeta:    meta,
			Subscription: env.Payload.Subscription.Entity,
			Payment:      env.Payload.Payment.Entity,
		}, nil

	case EventSubscriptionAuthenticated, EventSubscriptionActivated, EventSubscriptionPending,
		EventSubscriptionHalted, EventSubscriptionPaused, EventSubscriptionResumed,
		EventSubscriptionCancelled, EventSubscriptionCompleted, EventSubscriptionUpdated:
		if env.Payload.Subscription == nil || env.Payload.Subscription.Entity.ID == "" {
			return nil, fmt.Errorf("%w: %s without subscription", ErrMalformedEvent, env.Event)
		}
		return SubscriptionStatusEvent{
			EventMeta:    meta,
			Subscription: env.Payload.Subscription.Entity,
		}, nil

	case EventPaymentFailed:
		if env.Payload.Payment == nil || env.Payload.Payment.Entity.ID == "" {
			return nil, fmt.Errorf("%w: %s without payment", ErrMalformedEvent, env.Event)
		}
		ev := PaymentFailed{EventMeta: meta, Payment: env.Payload.Payment.Entity}
		if env.Payload.Subscription != nil {
			sub := env.Payload.Subscription.Entity
			ev.Subscription = &sub
		}
		return ev, nil

	case EventRefundProcessed:
		if env.Payload.Refund == nil || env.Payload.Refund.Entity.PaymentID == "" {
			return nil, fmt.Errorf("%w: %s without refund", ErrMalformedEvent, env.Event)
		}
		ev := RefundProcessed{EventMeta: meta, Refund: env.Payload.Refund.Entity}
		if env.Payload.Payment != nil {
			p := env.Payload.Payment.Entity
			ev.Payment = &p
		}
		return ev, nil

	default:
		return UnknownEvent{EventMeta: meta, Payload: json.RawMessage(body)}, nil
	}
}
