package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: ECONFLICT, Op: "sponsorship.pause", Message: "sponsorship is not active"},
			expected: "sponsorship.pause: sponsorship is not active",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EGATEWAY,
				Op:      "sponsorship.cancel",
				Message: "gateway rejected the request",
				Err:     errors.New("BAD_REQUEST_ERROR"),
			},
			expected: "sponsorship.cancel: gateway rejected the request: BAD_REQUEST_ERROR",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save",
				Err:     errors.New("database connection failed"),
			},
			expected: "failed to save: database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Gateway(underlying, "sponsorship.pause", "try again")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: EINVALID, Message: "test"}, EINVALID},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", Conflict("op", "test")), ECONFLICT},
		{"gateway error", Gateway(errors.New("timeout"), "op", "try again"), EGATEWAY},
		{"validation error", NewValidationError("op", "amount", "required"), EINVALID},
		{"orphaned event", &OrphanedEventError{EventID: "evt_1", SubscriptionID: "sub_1"}, ENOTFOUND},
		{"non-domain error", errors.New("some error"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"conflict shows message", Conflict("op", "sponsorship is not active"), "sponsorship is not active"},
		{"internal hides details", Internal(errors.New("pq: connection refused"), "op", "db down at 10.0.0.4"), "An internal error occurred. Please try again later."},
		{"validation error", NewValidationError("op", "amount", "required"), "Validation failed"},
		{"unknown error hides details", errors.New("secret"), "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(Invalid("plan.upsert", "bad")); got != "plan.upsert" {
		t.Errorf("ErrorOp() = %q, want %q", got, "plan.upsert")
	}
	if got := ErrorOp(errors.New("plain")); got != "" {
		t.Errorf("ErrorOp() = %q, want empty", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, EINTERNAL, "op", "msg") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	underlying := errors.New("boom")
	err := WrapError(underlying, EINTERNAL, "ledger.record", "failed to insert payment")
	if !IsCode(err, EINTERNAL) {
		t.Errorf("IsCode(EINTERNAL) = false")
	}
	if !errors.Is(err, underlying) {
		t.Error("wrapped error should unwrap to underlying")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("sponsorship.create", "amount", "must be positive")
	if got := err.Error(); got != "sponsorship.create: amount: must be positive" {
		t.Errorf("Error() = %q", got)
	}

	err = AddFieldError(err, "plan_type", "is required")
	fields := GetValidationFields(err)
	if len(fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(fields))
	}
	if fields["plan_type"] != "is required" {
		t.Errorf("fields[plan_type] = %q", fields["plan_type"])
	}
	if got := err.Error(); got != "sponsorship.create: validation failed for 2 fields" {
		t.Errorf("Error() = %q", got)
	}

	if GetValidationFields(errors.New("x")) != nil {
		t.Error("non-validation error should have no fields")
	}
}

func TestOrphanedEventError(t *testing.T) {
	err := fmt.Errorf("ledger: %w", &OrphanedEventError{EventID: "evt_9", SubscriptionID: "sub_9", PaymentID: "pay_9"})

	if !IsOrphanedEvent(err) {
		t.Fatal("IsOrphanedEvent should see through wrapping")
	}
	if IsOrphanedEvent(errors.New("other")) {
		t.Error("plain error is not orphaned")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("sponsorship.get", "sponsorship", "123"), ENOTFOUND},
		{"Unauthorized", Unauthorized("auth.verify", "bad token"), EUNAUTHORIZED},
		{"Forbidden", Forbidden("sponsorship.pause", "not yours"), EFORBIDDEN},
		{"Invalid", Invalid("plan.upsert", "bad bounds"), EINVALID},
		{"Conflict", Conflict("sponsorship.create", "already sponsored"), ECONFLICT},
		{"Internal", Internal(nil, "op", "msg"), EINTERNAL},
		{"Gateway", Gateway(nil, "op", "msg"), EGATEWAY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.code {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.code)
			}
		})
	}

	if got := NotFound("sponsorship.get", "sponsorship", "123").(*Error).Message; got != "sponsorship not found: 123" {
		t.Errorf("NotFound message = %q", got)
	}
}
