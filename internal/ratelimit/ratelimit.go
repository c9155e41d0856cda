// Package ratelimit decides whether a caller may make another request.
// Decisions are delegated to a Store so the budget can be kept in process
// or shared between replicas through Redis.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Limit is a token budget: Rate tokens per second up to Burst at once.
type Limit struct {
	Rate  float64
	Burst int
}

// Window is the time it takes to refill an empty bucket. Fixed-window
// stores use it as their window length.
func (l Limit) Window() time.Duration {
	if l.Rate <= 0 || l.Burst <= 0 {
		return time.Second
	}
	return time.Duration(math.Ceil(float64(l.Burst)/l.Rate*1000)) * time.Millisecond
}

// RetryAfter is the wait before at least one token is available again.
func (l Limit) RetryAfter() time.Duration {
	if l.Rate <= 0 {
		return time.Second
	}
	d := time.Duration(float64(time.Second) / l.Rate)
	if d < time.Second {
		return time.Second
	}
	return d
}

// Store records requests against a key.
type Store interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
}

// Limiter applies one Limit through a Store.
type Limiter struct {
	store  Store
	limit  Limit
	prefix string
}

// New creates a Limiter. Keys are namespaced with prefix so one store can
// serve several limiters.
func New(store Store, limit Limit, prefix string) *Limiter {
	return &Limiter{store: store, limit: limit, prefix: prefix}
}

// Allow reports whether key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.store.Allow(ctx, l.prefix+":"+key, l.limit)
}

// Limit returns the configured budget.
func (l *Limiter) Limit() Limit {
	return l.limit
}
