// Package ratelimit provides shared token-bucket limiters and the decorators
// that apply them to outbound calls.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter keys shared across the process. ATS hosts are keyed by hostname.
const (
	KeyStore = "store"
	KeyAI    = "ai"
)

// Limiter hands out one token bucket per key. Keys without an explicit limit
// get the default.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	overrides map[string]*rate.Limiter
}

// New creates a Limiter whose default bucket refills at perSecond with burst.
// A non-positive perSecond means unlimited.
func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		limit:     toLimit(perSecond),
		burst:     max(burst, 1),
		overrides: make(map[string]*rate.Limiter),
	}
}

// SetLimit gives key its own rate instead of the default.
func (l *Limiter) SetLimit(key string, perSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.overrides[key] = rate.NewLimiter(toLimit(perSecond), max(burst, 1))
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.overrides[key]; ok {
		return lim
	}
	if lim, ok := l.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = lim
	return lim
}

// Wait blocks until key has a token or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if err := l.limiterFor(key).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", key, err)
	}
	return nil
}

// WaitURL waits on the bucket of raw's host (api.lever.co, boards-api.greenhouse.io, ...).
func (l *Limiter) WaitURL(ctx context.Context, raw string) error {
	return l.Wait(ctx, HostKey(raw))
}

// HostKey returns the limiter key for a URL: its lower-cased host, or "_"
// when there is none.
func HostKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "_"
	}
	return strings.ToLower(u.Host)
}

func toLimit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}
