package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/sponsor/internal/telemetry"
)

// RazorpayConfig contains configuration for the Razorpay provider.
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string

	// BaseURL defaults to https://api.razorpay.com.
	BaseURL string

	// Currency defaults to INR.
	Currency string

	// TotalCount is the default number of billing cycles per subscription.
	TotalCount int

	// Timeout bounds every API call.
	Timeout time.Duration
}

// Validate checks that required configuration is present.
func (c RazorpayConfig) Validate() error {
	if c.KeyID == "" || c.KeySecret == "" {
		return fmt.Errorf("razorpay key id and secret are required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("razorpay webhook secret is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("razorpay timeout must be positive")
	}
	return nil
}

// IsTestMode returns true when using test mode keys.
func (c RazorpayConfig) IsTestMode() bool {
	return strings.HasPrefix(c.KeyID, "rzp_test_")
}

// RazorpayProvider implements Gateway against the Razorpay REST API.
type RazorpayProvider struct {
	config     RazorpayConfig
	httpClient *http.Client
}

var _ Gateway = (*RazorpayProvider)(nil)

// NewRazorpayProvider creates a Razorpay-backed gateway.
func NewRazorpayProvider(config RazorpayConfig) (*RazorpayProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid razorpay config: %w", err)
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.razorpay.com"
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.Currency == "" {
		config.Currency = "INR"
	}

	return &RazorpayProvider{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: &telemetry.HTTPTransport{Transport: http.DefaultTransport},
		},
	}, nil
}

type razorpayPlanRequest struct {
	Period   string            `json:"period"`
	Interval int               `json:"interval"`
	Item     razorpayPlanItem  `json:"item"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayPlanItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type razorpayPlan struct {
	ID string `json:"id"`
}

type razorpaySubscriptionRequest struct {
	PlanID         string            `json:"plan_id"`
	TotalCount     int               `json:"total_count"`
	Quantity       int               `json:"quantity"`
	CustomerNotify int               `json:"customer_notify"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type razorpayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
		Field       string `json:"field"`
	} `json:"error"`
}

// CreateSubscription creates a plan for the sponsor's amount, then a
// subscription on it.
func (p *RazorpayProvider) CreateSubscription(ctx context.Context, params CreateSubscriptionParams) (*Checkout, error) {
	currency := params.Currency
	if currency == "" {
		currency = p.config.Currency
	}
	totalCount := params.TotalCount
	if totalCount == 0 {
		totalCount = p.config.TotalCount
	}
	interval := params.IntervalCount
	if interval == 0 {
		interval = 1
	}

	var plan razorpayPlan
	err := p.do(ctx, "plan.create", http.MethodPost, "/v1/plans", razorpayPlanRequest{
		Period:   params.IntervalUnit,
		Interval: interval,
		Item: razorpayPlanItem{
			Name:     fmt.Sprintf("Sponsorship (%s)", params.PlanType),
			Amount:   params.AmountPaise,
			Currency: currency,
		},
		Notes: map[string]string{"plan_type": params.PlanType},
	}, &plan)
	if err != nil {
		return nil, err
	}

	var sub SubscriptionEntity
	err = p.do(ctx, "subscription.create", http.MethodPost, "/v1/subscriptions", razorpaySubscriptionRequest{
		PlanID:         plan.ID,
		TotalCount:     totalCount,
		Quantity:       1,
		CustomerNotify: 1,
		Notes: map[string]string{
			"sponsorship_id": params.SponsorshipID,
			"sponsor_id":     params.SponsorID,
			"beneficiary_id": params.BeneficiaryID,
		},
	}, &sub)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		SubscriptionID: sub.ID,
		PlanID:         plan.ID,
		KeyID:          p.config.KeyID,
		ShortURL:       sub.ShortURL,
		AmountPaise:    params.AmountPaise,
		Currency:       currency,
		Status:         sub.Status,
	}, nil
}

// CancelSubscription cancels a subscription now or at cycle end.
func (p *RazorpayProvider) CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) (*SubscriptionSnapshot, error) {
	flag := 0
	if atCycleEnd {
		flag = 1
	}
	return p.subscriptionAction(ctx, "subscription.cancel", subscriptionID, "cancel",
		map[string]int{"cancel_at_cycle_end": flag})
}

// PauseSubscription pauses a subscription immediately.
func (p *RazorpayProvider) PauseSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	return p.subscriptionAction(ctx, "subscription.pause", subscriptionID, "pause",
		map[string]string{"pause_at": "now"})
}

// ResumeSubscription resumes a paused subscription immediately.
func (p *RazorpayProvider) ResumeSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	return p.subscriptionAction(ctx, "subscription.resume", subscriptionID, "resume",
		map[string]string{"resume_at": "now"})
}

// FetchSubscription retrieves the subscription as the gateway sees it.
func (p *RazorpayProvider) FetchSubscription(ctx context.Context, subscriptionID string) (*SubscriptionSnapshot, error) {
	if subscriptionID == "" {
		return nil, ErrSubscriptionNotFound
	}
	var sub SubscriptionEntity
	if err := p.do(ctx, "subscription.fetch", http.MethodGet, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &sub); err != nil {
		return nil, err
	}
	return sub.Snapshot(), nil
}

func (p *RazorpayProvider) subscriptionAction(ctx context.Context, op, subscriptionID, action string, body any) (*SubscriptionSnapshot, error) {
	if subscriptionID == "" {
		return nil, ErrSubscriptionNotFound
	}
	var sub SubscriptionEntity
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID) + "/" + action
	if err := p.do(ctx, op, http.MethodPost, path, body, &sub); err != nil {
		return nil, err
	}
	return sub.Snapshot(), nil
}

// VerifyPaymentSignature checks an order checkout signature.
func (p *RazorpayProvider) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(p.config.KeySecret, orderID, paymentID, signature)
}

// VerifySubscriptionSignature checks a subscription checkout signature.
func (p *RazorpayProvider) VerifySubscriptionSignature(subscriptionID, paymentID, signature string) bool {
	return VerifySubscriptionSignature(p.config.KeySecret, subscriptionID, paymentID, signature)
}

// VerifyWebhookSignature checks a webhook body signature.
func (p *RazorpayProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyWebhookSignature(p.config.WebhookSecret, body, signature)
}

// do performs one API call. Any failure is returned as *GatewayError.
func (p *RazorpayProvider) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &GatewayError{Op: op, Code: "encode_error", Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.config.BaseURL+path, reader)
	if err != nil {
		return &GatewayError{Op: op, Code: "request_error", Err: err}
	}
	req.SetBasicAuth(p.config.KeyID, p.config.KeySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		gerr := transportError(op, err)
		observe(op, method, path, gerr.Code, start)
		return gerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		gerr := transportError(op, err)
		observe(op, method, path, gerr.Code, start)
		return gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := apiError(op, resp.StatusCode, raw)
		observe(op, method, path, "rejected", start)
		return gerr
	}
	observe(op, method, path, "ok", start)

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &GatewayError{Op: op, Code: "decode_error", StatusCode: resp.StatusCode, Description: "unexpected response body", Err: err}
		}
	}
	return nil
}

// observe records the call latency and leaves a breadcrumb for any error
// reported later in the same request.
func observe(op, method, path, outcome string, start time.Time) {
	telemetry.ObserveGatewayCall(op, outcome, time.Since(start))
	telemetry.AddBreadcrumb("razorpay", op, map[string]interface{}{
		"method":  method,
		"path":    path,
		"outcome": outcome,
	})
}

func transportError(op string, err error) *GatewayError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &GatewayError{Op: op, Code: "timeout", Timeout: true, Err: err}
	}
	return &GatewayError{Op: op, Code: "network_error", Err: err}
}

func apiError(op string, status int, raw []byte) *GatewayError {
	gerr := &GatewayError{Op: op, StatusCode: status, Code: http.StatusText(status)}

	var body razorpayErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Code != "" {
		gerr.Code = body.Error.Code
		gerr.Description = body.Error.Description
	} else {
		gerr.Description = strings.TrimSpace(string(raw))
	}
	return gerr
}
