package billing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dukerupert/sponsor/internal/domain"
)

// flexInt decodes integers the gateway sometimes sends quoted.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// notes decodes the gateway's notes field, which is an object when set and
// an empty array when not.
type notes map[string]string

func (n *notes) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		*n = nil
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(notes, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	*n = out
	return nil
}

func unixTime(ts *int64) *time.Time {
	if ts == nil || *ts == 0 {
		return nil
	}
	t := time.Unix(*ts, 0).UTC()
	return &t
}

// SubscriptionEntity is the gateway's subscription resource.
type SubscriptionEntity struct {
	ID             string  `json:"id"`
	PlanID         string  `json:"plan_id"`
	Status         string  `json:"status"`
	ShortURL       string  `json:"short_url"`
	TotalCount     flexInt `json:"total_count"`
	PaidCount      flexInt `json:"paid_count"`
	RemainingCount flexInt `json:"remaining_count"`
	StartAt        *int64  `json:"start_at"`
	CurrentStart   *int64  `json:"current_start"`
	CurrentEnd     *int64  `json:"current_end"`
	ChargeAt       *int64  `json:"charge_at"`
	EndedAt        *int64  `json:"ended_at"`
	Notes          notes   `json:"notes"`
}

// Snapshot converts the entity into a SubscriptionSnapshot.
func (e *SubscriptionEntity) Snapshot() *SubscriptionSnapshot {
	return &SubscriptionSnapshot{
		ID:             e.ID,
		PlanID:         e.PlanID,
		Status:         e.Status,
		PaidCount:      int(e.PaidCount),
		TotalCount:     int(e.TotalCount),
		RemainingCount: int(e.RemainingCount),
		StartAt:        unixTime(e.StartAt),
		CurrentStart:   unixTime(e.CurrentStart),
		CurrentEnd:     unixTime(e.CurrentEnd),
		ChargeAt:       unixTime(e.ChargeAt),
		EndedAt:        unixTime(e.EndedAt),
	}
}

// PaymentEntity is the gateway's payment resource.
type PaymentEntity struct {
	ID               string `json:"id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	OrderID          string `json:"order_id"`
	InvoiceID        string `json:"invoice_id"`
	SubscriptionID   string `json:"subscription_id"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	CreatedAt        int64  `json:"created_at"`
	Notes            notes  `json:"notes"`
}

// LocalStatus maps the gateway payment status onto the ledger statuses.
func (p *PaymentEntity) LocalStatus() domain.PaymentStatus {
	switch p.Status {
	case "captured":
		return domain.PaymentPaid
	case "failed":
		return domain.PaymentFailed
	case "refunded":
		return domain.PaymentRefunded
	default:
		return domain.PaymentPending
	}
}

// CreatedTime is the payment creation time, or the zero time when absent.
func (p *PaymentEntity) CreatedTime() time.Time {
	if p.CreatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(p.CreatedAt, 0).UTC()
}

// SubscriptionRef returns the subscription a payment belongs to, looking at
// the entity field first and the notes second.
func (p *PaymentEntity) SubscriptionRef() string {
	if p.SubscriptionID != "" {
		return p.SubscriptionID
	}
	return p.Notes["subscription_id"]
}

// RefundEntity is the gateway's refund resource.
type RefundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}
