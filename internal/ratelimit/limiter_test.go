package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowUnderLimitIncrementsAllScopes(t *testing.T) {
	store := newFakeCounterStore()
	limiter := New(store, 48*time.Hour)

	scopes := []Scope{
		IPScope("203.0.113.7", "2026-08-30", 10),
		GlobalScope("2026-08-30", 1000),
	}

	violated, err := limiter.Allow(context.Background(), scopes)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if violated != nil {
		t.Fatalf("expected no violation, got %q", violated.Message)
	}

	for _, scope := range scopes {
		if store.counts[scope.Key] != 1 {
			t.Fatalf("expected counter %s = 1, got %d", scope.Key, store.counts[scope.Key])
		}
		if store.ttls[scope.Key] != 48*time.Hour {
			t.Fatalf("expected 48h ttl on %s, got %v", scope.Key, store.ttls[scope.Key])
		}
	}
}

func TestAllowRejectsSerialOverLimit(t *testing.T) {
	store := newFakeCounterStore()
	limiter := New(store, 48*time.Hour)

	scopes := []Scope{IPScope("203.0.113.7", "2026-08-30", 3)}

	for i := 0; i < 3; i++ {
		violated, err := limiter.Allow(context.Background(), scopes)
		if err != nil {
			t.Fatalf("Allow #%d returned error: %v", i+1, err)
		}
		if violated != nil {
			t.Fatalf("submission %d unexpectedly rejected", i+1)
		}
	}

	violated, err := limiter.Allow(context.Background(), scopes)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if violated == nil {
		t.Fatalf("expected 4th call to be rejected")
	}
	if violated.Message != "IP daily limit reached" {
		t.Fatalf("unexpected violation message: %q", violated.Message)
	}
	if store.counts[scopes[0].Key] != 3 {
		t.Fatalf("rejection must not increment counter, got %d", store.counts[scopes[0].Key])
	}
}

func TestAllowIsolatesScopesByAddress(t *testing.T) {
	store := newFakeCounterStore()
	limiter := New(store, 48*time.Hour)

	exhausted := []Scope{IPScope("203.0.113.7", "2026-08-30", 1)}
	if violated, _ := limiter.Allow(context.Background(), exhausted); violated != nil {
		t.Fatalf("first submission rejected")
	}
	if violated, _ := limiter.Allow(context.Background(), exhausted); violated == nil {
		t.Fatalf("expected exhausted address to be rejected")
	}

	fresh := []Scope{IPScope("198.51.100.9", "2026-08-30", 1)}
	violated, err := limiter.Allow(context.Background(), fresh)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if violated != nil {
		t.Fatalf("fresh address should not share the exhausted counter")
	}
}

func TestAllowGlobalLimitBlocksAllAddresses(t *testing.T) {
	store := newFakeCounterStore()
	limiter := New(store, 48*time.Hour)

	day := "2026-08-30"
	first := []Scope{IPScope("203.0.113.7", day, 10), GlobalScope(day, 2)}
	second := []Scope{IPScope("198.51.100.9", day, 10), GlobalScope(day, 2)}

	for _, scopes := range [][]Scope{first, second} {
		if violated, _ := limiter.Allow(context.Background(), scopes); violated != nil {
			t.Fatalf("expected submission under global limit to pass")
		}
	}

	third := []Scope{IPScope("192.0.2.1", day, 10), GlobalScope(day, 2)}
	violated, err := limiter.Allow(context.Background(), third)
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if violated == nil {
		t.Fatalf("expected global limit violation")
	}
	if violated.Message != "Global daily limit reached" {
		t.Fatalf("unexpected violation message: %q", violated.Message)
	}
	if store.counts[third[0].Key] != 0 {
		t.Fatalf("global rejection must not consume the address quota, got %d", store.counts[third[0].Key])
	}
}

func TestAllowNoPartialIncrementOnLaterScopeViolation(t *testing.T) {
	store := newFakeCounterStore()
	limiter := New(store, 48*time.Hour)

	day := "2026-08-30"
	global := GlobalScope(day, 0)
	ip := IPScope("203.0.113.7", day, 10)

	violated, err := limiter.Allow(context.Background(), []Scope{ip, global})
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if violated == nil || violated.Key != global.Key {
		t.Fatalf("expected global violation, got %+v", violated)
	}
	if len(store.counts) != 0 {
		t.Fatalf("expected no writes at all, got %v", store.counts)
	}
}

func TestDayFormatsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 01:30 on the 31st in UTC+9 is still the 30th in UTC.
	at := time.Date(2026, 8, 31, 1, 30, 0, 0, loc)
	if got := Day(at); got != "2026-08-30" {
		t.Fatalf("expected 2026-08-30, got %s", got)
	}
}

// --- fakes ---

type fakeCounterStore struct {
	counts map[string]int
	ttls   map[string]time.Duration
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counts: make(map[string]int),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeCounterStore) GetInt(ctx context.Context, key string) (int, error) {
	return f.counts[key], nil
}

func (f *fakeCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	f.counts[key]++
	f.ttls[key] = ttl
	return nil
}
