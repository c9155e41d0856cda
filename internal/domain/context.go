// Package domain provides core sponsorship types, the error model and
// context helpers.
//
// Context helpers centralize request-scoped data access so handlers and
// services read the caller the same way.
package domain

import (
	"context"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// principalContextKey stores the authenticated caller.
	principalContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Roles issued by the identity provider.
const (
	RoleSponsor   = "sponsor"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Principal is the authenticated caller. ID is the identity provider's
// user id; Role decides capabilities through auth.Policy.
type Principal struct {
	ID   string
	Role string
}

// --- Principal Context Helpers ---

// NewContextWithPrincipal returns a new context with the principal attached.
func NewContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the principal from context.
// Returns nil if the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// PrincipalIDFromContext retrieves the principal ID from context.
// Returns "" if the request is unauthenticated.
func PrincipalIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.ID
	}
	return ""
}

// MustPrincipal retrieves the principal from context, panicking if not present.
// The panic will be caught by the recovery middleware in HTTP handlers.
func MustPrincipal(ctx context.Context) *Principal {
	p := PrincipalFromContext(ctx)
	if p == nil {
		panic("principal required in context but not found")
	}
	return p
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
