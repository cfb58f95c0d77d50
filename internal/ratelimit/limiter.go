package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Scope is one counting dimension of the daily quota: a single client
// address or the global sentinel.
type Scope struct {
	Key     string
	Limit   int
	Message string
}

// IPScope builds the per-address scope for the given day.
func IPScope(ip, day string, limit int) Scope {
	return Scope{
		Key:     fmt.Sprintf("rl:ip:%s:%s", ip, day),
		Limit:   limit,
		Message: "IP daily limit reached",
	}
}

// GlobalScope builds the service-wide scope for the given day.
func GlobalScope(day string, limit int) Scope {
	return Scope{
		Key:     fmt.Sprintf("rl:global:%s", day),
		Limit:   limit,
		Message: "Global daily limit reached",
	}
}

// Day formats the quota window key for a point in time. Counters are
// bucketed by UTC calendar day.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type counterStore interface {
	GetInt(ctx context.Context, key string) (int, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) error
}

// Limiter enforces soft daily quotas over an external key/value store.
// The check-then-increment sequence is not atomic across concurrent
// callers; racing requests may overshoot a limit slightly.
type Limiter struct {
	store counterStore
	ttl   time.Duration
}

// New constructs a Limiter. ttl is the counter retention window and must
// exceed the one-day quota window so a counter outlives the day it measures.
func New(store counterStore, ttl time.Duration) *Limiter {
	return &Limiter{store: store, ttl: ttl}
}

// Allow evaluates every scope before writing anything. If any counter is
// at or above its limit the violated scope is returned and no counter is
// touched. Otherwise all counters are incremented, each refreshed to the
// full retention TTL.
func (l *Limiter) Allow(ctx context.Context, scopes []Scope) (*Scope, error) {
	for i := range scopes {
		count, err := l.store.GetInt(ctx, scopes[i].Key)
		if err != nil {
			return nil, fmt.Errorf("read counter %s: %w", scopes[i].Key, err)
		}
		if count >= scopes[i].Limit {
			return &scopes[i], nil
		}
	}

	for i := range scopes {
		if err := l.store.IncrWithTTL(ctx, scopes[i].Key, l.ttl); err != nil {
			return nil, fmt.Errorf("increment counter %s: %w", scopes[i].Key, err)
		}
	}

	return nil, nil
}
