// Package ratelimit implements a fixed-window request counter keyed by
// client IP, backed by a key-value store with native per-key expiry.
//
// The limiter is an abuse deterrent, not a security boundary: it fails open
// when the store is missing or unhealthy, and the read-then-write update is
// not atomic across concurrent requests from the same IP. Do not add locking
// or compare-and-swap; that changes observable behavior under load.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

const (
	// Window is the length of one rate-limit window.
	Window = time.Hour
	// MaxRequests is the number of requests allowed per IP per window.
	MaxRequests = 5

	keyPrefix = "rate_limit:"
)

// Record is the stored counter for one client within one window.
type Record struct {
	Count   int   `json:"count"`
	ResetAt int64 `json:"resetAt"` // epoch milliseconds
}

// Store is the minimal key-value contract the limiter needs. Get returns
// (nil, nil) when the key is absent. Put must honor the supplied TTL so
// stale windows expire without explicit deletes.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error
}

// Result is the outcome of one rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter applies the fixed-window policy against a Store.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Limiter. A nil store disables limiting entirely; every check
// then reports allowed with the full quota remaining.
func New(store Store, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		store:  store,
		max:    MaxRequests,
		window: Window,
		logger: logger,
		now:    time.Now,
	}
}

// Check applies the policy for ip and updates the stored counter. Store
// failures on either the read or the write are logged and treated as allow.
func (l *Limiter) Check(ctx context.Context, ip string) Result {
	if l.store == nil {
		return Result{Allowed: true, Remaining: l.max}
	}

	key := keyPrefix + ip
	now := l.now().UnixMilli()

	rec, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit read failed, allowing request", "ip", ip, "error", err)
		return Result{Allowed: true, Remaining: l.max}
	}

	if rec == nil || now > rec.ResetAt {
		fresh := Record{Count: 1, ResetAt: now + l.window.Milliseconds()}
		if err := l.store.Put(ctx, key, fresh, l.window); err != nil {
			l.logger.Warn("rate limit write failed, allowing request", "ip", ip, "error", err)
			return Result{Allowed: true, Remaining: l.max}
		}
		return Result{Allowed: true, Remaining: l.max - 1}
	}

	if rec.Count >= l.max {
		return Result{Allowed: false, Remaining: 0}
	}

	// TTL is the remaining window, rounded down to whole seconds.
	ttl := time.Duration((rec.ResetAt-now)/1000) * time.Second
	updated := Record{Count: rec.Count + 1, ResetAt: rec.ResetAt}
	if err := l.store.Put(ctx, key, updated, ttl); err != nil {
		l.logger.Warn("rate limit write failed, allowing request", "ip", ip, "error", err)
		return Result{Allowed: true, Remaining: l.max}
	}
	return Result{Allowed: true, Remaining: l.max - rec.Count - 1}
}
