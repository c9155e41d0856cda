package domain

import (
	"context"
	"testing"
)

func TestPrincipalContext(t *testing.T) {
	t.Run("PrincipalFromContext returns nil when no principal", func(t *testing.T) {
		if p := PrincipalFromContext(context.Background()); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
		if id := PrincipalIDFromContext(context.Background()); id != "" {
			t.Errorf("expected empty id, got %q", id)
		}
	})

	t.Run("PrincipalFromContext returns principal when set", func(t *testing.T) {
		expected := &Principal{ID: "user_123", Role: RoleSponsor}
		ctx := NewContextWithPrincipal(context.Background(), expected)

		if got := PrincipalFromContext(ctx); got != expected {
			t.Errorf("expected %+v, got %+v", expected, got)
		}
		if got := PrincipalIDFromContext(ctx); got != "user_123" {
			t.Errorf("expected user_123, got %q", got)
		}
	})

	t.Run("MustPrincipal panics when no principal", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		MustPrincipal(context.Background())
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Run("RequestIDFromContext returns empty string when no request ID", func(t *testing.T) {
		if requestID := RequestIDFromContext(context.Background()); requestID != "" {
			t.Errorf("expected empty string, got %q", requestID)
		}
	})

	t.Run("values coexist in context", func(t *testing.T) {
		ctx := NewContextWithRequestID(context.Background(), "req-abc123")
		ctx = NewContextWithPrincipal(ctx, &Principal{ID: "admin_1", Role: RoleAdmin})

		if got := RequestIDFromContext(ctx); got != "req-abc123" {
			t.Errorf("expected request ID %q, got %q", "req-abc123", got)
		}
		if got := PrincipalFromContext(ctx); got == nil || got.Role != RoleAdmin {
			t.Error("principal not found or wrong role")
		}
	})
}
