package billing

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidWebhookSignature is returned when webhook signature verification fails.
	ErrInvalidWebhookSignature = errors.New("billing: invalid webhook signature")

	// ErrMalformedEvent is returned when an authentic webhook body cannot be decoded.
	ErrMalformedEvent = errors.New("billing: malformed webhook event")

	// ErrSubscriptionNotFound is returned when the gateway has no such subscription.
	ErrSubscriptionNotFound = errors.New("billing: subscription not found")
)

// GatewayError wraps a failed gateway call with the provider's error code.
type GatewayError struct {
	// Op is the gateway operation, e.g. "subscription.pause".
	Op string

	// Code is the provider error code (e.g. "BAD_REQUEST_ERROR"), or a
	// local code for transport failures ("timeout", "network_error").
	Code string

	// Description is the provider's human-readable message.
	Description string

	// StatusCode is the HTTP status returned by the provider, zero for
	// transport failures.
	StatusCode int

	// Timeout is true when the call exceeded its deadline. The upstream
	// outcome is unknown.
	Timeout bool

	// Err is the underlying error, if any.
	Err error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("billing: %s failed (status %d, code %s): %s", e.Op, e.StatusCode, e.Code, e.Description)
	}
	if e.Err != nil {
		return fmt.Sprintf("billing: %s failed (code %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("billing: %s failed (code %s): %s", e.Op, e.Code, e.Description)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsTemporary returns true for failures worth retrying later: timeouts,
// transport errors, rate limiting and provider-side errors.
func (e *GatewayError) IsTemporary() bool {
	if e.Timeout || e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsNotFound returns true when the provider reported the resource missing.
func (e *GatewayError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsGatewayError unwraps err into a *GatewayError.
func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
