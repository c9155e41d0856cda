package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockGateway is an in-memory gateway for tests and local development.
// Subscriptions move through gateway statuses without calling Razorpay.
type MockGateway struct {
	// CreateSubscriptionFunc allows customizing subscription creation behavior
	CreateSubscriptionFunc func(ctx context.Context, params CreateSubscriptionParams) (*Checkout, error)

	// CancelSubscriptionFunc allows customizing cancellation behavior
	CancelSubscriptionFunc func(ctx context.Context, subscriptionID string, atCycleEnd bool) (*SubscriptionSnapshot, error)

	// PauseSubscriptionFunc allows customizing pause behavior
	PauseSubscriptionFunc func(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// ResumeSubscriptionFunc allows customizing resume behavior
	ResumeSubscriptionFunc func(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// FetchSubscriptionFunc allows customizing fetch behavior
	FetchSubscriptionFunc func(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error)

	// KeySecret and WebhookSecret sign checkout and webhook payloads.
	KeySecret     string
	WebhookSecret string

	// Subscriptions stores created subscriptions by id
	Subscriptions map[string]*SubscriptionSnapshot

	// CallLog tracks method calls for test assertions
	CallLog []string

	mu sync.Mutex
}

var _ Gateway = (*MockGateway)(nil)

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		KeySecret:     "mock_key_secret",
		WebhookSecret: "mock_webhook_secret",
		Subscriptions: make(map[string]*SubscriptionSnapshot),
		CallLog:       []string{},
	}
}

func (m *MockGateway) log(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the call log.
func (m *MockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallLog...)
}

// CreateSubscription creates a mock subscription in "created" status.
func (m *MockGateway) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Checkout, error) {
	m.log("CreateSubscription(%s, %d)", params.PlanType, params.AmountPaise)

	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, params)
	}

	id := "sub_" + uuid.New().String()[:14]
	planID := "plan_" + uuid.New().String()[:14]

	m.mu.Lock()
	m.Subscriptions[id] = &SubscriptionSnapshot{
		ID:         id,
		PlanID:     planID,
		Status:     GatewayStatusCreated,
		TotalCount: params.TotalCount,
	}
	m.mu.Unlock()

	currency := params.Currency
	if currency == "" {
		currency = "INR"
	}
	return &Checkout{
		SubscriptionID: id,
		PlanID:         planID,
		KeyID:          "rzp_test_mock",
		AmountPaise:    params.AmountPaise,
		Currency:       currency,
		Status:         GatewayStatusCreated,
	}, nil
}

// CancelSubscription marks the mock subscription cancelled.
func (m *MockGateway) CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) (*SubscriptionSnapshot, error) {
	m.log("CancelSubscription(%s, %t)", subscriptionID, atCycleEnd)

	if m.CancelSubscriptionFunc != nil {
		return m.CancelSubscriptionFunc(ctx, subscriptionID, atCycleEnd)
	}
	if atCycleEnd {
		return m.snapshot(subscriptionID)
	}
	return m.setStatus(subscriptionID, GatewayStatusCancelled)
}

// PauseSubscription marks the mock subscription paused.
func (m *MockGateway) PauseSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	m.log("PauseSubscription(%s)", subscriptionID)

	if m.PauseSubscriptionFunc != nil {
		return m.PauseSubscriptionFunc(ctx, subscriptionID)
	}
	return m.setStatus(subscriptionID, GatewayStatusPaused)
}

// ResumeSubscription marks the mock subscription active.
func (m *MockGateway) ResumeSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	m.log("ResumeSubscription(%s)", subscriptionID)

	if m.ResumeSubscriptionFunc != nil {
		return m.ResumeSubscriptionFunc(ctx, subscriptionID)
	}
	return m.setStatus(subscriptionID, GatewayStatusActive)
}

// FetchSubscription returns the stored mock subscription.
func (m *MockGateway) FetchSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	m.log("FetchSubscription(%s)", subscriptionID)

	if m.FetchSubscriptionFunc != nil {
		return m.FetchSubscriptionFunc(ctx, subscriptionID)
	}
	return m.snapshot(subscriptionID)
}

// VerifyPaymentSignature checks against KeySecret.
func (m *MockGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(m.KeySecret, orderID, paymentID, signature)
}

// VerifySubscriptionSignature checks against KeySecret.
func (m *MockGateway) VerifySubscriptionSignature(subscriptionID, paymentID, signature string) bool {
	return VerifySubscriptionSignature(m.KeySecret, subscriptionID, paymentID, signature)
}

// VerifyWebhookSignature checks against WebhookSecret.
func (m *MockGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyWebhookSignature(m.WebhookSecret, body, signature)
}

// SimulateActivation moves a subscription to active with the next charge
// one cycle out, as the gateway does after the first payment.
func (m *MockGateway) SimulateActivation(subscriptionID string, nextCharge time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.Subscriptions[subscriptionID]; ok {
		sub.Status = GatewayStatusActive
		sub.PaidCount++
		sub.ChargeAt = &nextCharge
	}
}

// SimulateStatus forces a subscription into the given gateway status.
func (m *MockGateway) SimulateStatus(subscriptionID, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.Subscriptions[subscriptionID]; ok {
		sub.Status = status
	}
}

func (m *MockGateway) setStatus(subscriptionID, status string) (*SubscriptionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, &GatewayError{Op: "subscription." + status, Code: "BAD_REQUEST_ERROR", StatusCode: 404, Description: "The id provided does not exist"}
	}
	sub.Status = status
	copied := *sub
	return &copied, nil
}

func (m *MockGateway) snapshot(subscriptionID string) (*SubscriptionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.Subscriptions[subscriptionID]
	if !ok {
		return nil, &GatewayError{Op: "subscription.fetch", Code: "BAD_REQUEST_ERROR", StatusCode: 404, Description: "The id provided does not exist"}
	}
	copied := *sub
	return &copied, nil
}
