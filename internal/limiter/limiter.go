// Package limiter caps how often one client may trigger paid model calls.
package limiter

import (
	"context"
	"fmt"
	"time"
)

// Storage counts hits per key inside a window.
type Storage interface {
	// Incr increments key and starts its window of length ttl on first use.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// Actions limited by the UI.
const (
	ActionLookup = "lookup"
	ActionReview = "review"
)

type Limiter struct {
	storage Storage
	limits  map[string]ActionConfig
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

// NewLimiter allows lookupsPerMinute lookups per client per minute. A
// non-positive value disables the lookup limit.
func NewLimiter(storage Storage, lookupsPerMinute int64) *Limiter {
	limits := map[string]ActionConfig{
		ActionReview: {Limit: 120, Window: time.Minute},
	}
	if lookupsPerMinute > 0 {
		limits[ActionLookup] = ActionConfig{Limit: lookupsPerMinute, Window: time.Minute}
	}
	return &Limiter{storage: storage, limits: limits, now: time.Now}
}

// Check counts one hit of action by clientID. Actions without a configured
// limit are always allowed and not counted.
func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		return &CheckResult{Allowed: true, Remaining: -1}, nil
	}

	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.storage.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.storage.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}

	resetAt := l.now().Add(ttl).Unix()
	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     config.Limit,
	}, nil
}
