package middleware

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/config"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/metrics"
)

// bucket is one fixed counting window for an (identity, path) key.
// The window never moves once started: a rejected request does not touch
// count or resetTime.
type bucket struct {
	count     int
	resetTime time.Time
}

// RateLimiter maintains per-(client identity, request path) fixed-window
// counters. The applicable limit/window pair is the longest configured path
// prefix matching the request path, falling back to the default rule.
// State is in-memory and per-process: correct for a single-instance
// deployment only. Buckets live in a size-capped LRU; expired entries are
// additionally purged by the janitor.
type RateLimiter struct {
	defaultRule config.RateLimitRule
	rules       map[string]config.RateLimitRule
	prefixes    []string // sorted longest-first for deterministic matching

	mu      sync.Mutex
	buckets *lru.Cache[string, *bucket]

	now func() time.Time // injectable for tests
}

const defaultMaxBuckets = 100_000

// NewRateLimiter builds a limiter from the security policy.
func NewRateLimiter(cfg config.SecurityConfig) *RateLimiter {
	max := cfg.MaxRateLimitBuckets
	if max <= 0 {
		max = defaultMaxBuckets
	}
	cache, _ := lru.New[string, *bucket](max)
	prefixes := make([]string, 0, len(cfg.PathRateLimits))
	for p := range cfg.PathRateLimits {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})
	return &RateLimiter{
		defaultRule: cfg.DefaultRateLimit,
		rules:       cfg.PathRateLimits,
		prefixes:    prefixes,
		buckets:     cache,
		now:         time.Now,
	}
}

// ClientIdentity resolves the caller identity: proxy-supplied IP, then
// real-IP header, then the CDN header, else the literal "unknown".
// RemoteAddr is deliberately not consulted: behind a proxy every socket is
// the proxy's, and a shared "unknown" bucket fails closed.
func ClientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		return strings.TrimSpace(cf)
	}
	return "unknown"
}

// ruleFor returns the limit rule and the matched prefix ("" = default rule).
func (l *RateLimiter) ruleFor(path string) (config.RateLimitRule, string) {
	for _, p := range l.prefixes {
		if strings.HasPrefix(path, p) {
			return l.rules[p], p
		}
	}
	return l.defaultRule, ""
}

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	WindowMs  int
	ResetTime time.Time
	Remaining int
	Prefix    string
}

// Check applies the fixed-window algorithm for the request. An allowed
// request increments its bucket (creating it with a fresh window when absent
// or expired); a rejected request leaves the bucket untouched.
func (l *RateLimiter) Check(r *http.Request) Decision {
	identity := ClientIdentity(r)
	path := r.URL.Path
	rule, prefix := l.ruleFor(path)
	key := identity + ":" + path
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(key)
	if !ok || now.After(b.resetTime) {
		b = &bucket{count: 0, resetTime: now.Add(rule.Window())}
		l.buckets.Add(key, b)
	}
	if b.count >= rule.Limit {
		metrics.RateLimitRejectionsTotal.WithLabelValues(prefixLabel(prefix)).Inc()
		return Decision{
			Allowed:   false,
			Limit:     rule.Limit,
			WindowMs:  rule.WindowMs,
			ResetTime: b.resetTime,
			Remaining: 0,
			Prefix:    prefix,
		}
	}
	b.count++
	return Decision{
		Allowed:   true,
		Limit:     rule.Limit,
		WindowMs:  rule.WindowMs,
		ResetTime: b.resetTime,
		Remaining: rule.Limit - b.count,
		Prefix:    prefix,
	}
}

// StartJanitor periodically drops buckets whose window has expired. The
// limiter is correct without it (expiry is checked on access); the sweep
// only bounds idle-key memory between accesses.
func (l *RateLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()
}

func (l *RateLimiter) sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range l.buckets.Keys() {
		if b, ok := l.buckets.Peek(key); ok && now.After(b.resetTime) {
			l.buckets.Remove(key)
		}
	}
}

func prefixLabel(prefix string) string {
	if prefix == "" {
		return "default"
	}
	return prefix
}
