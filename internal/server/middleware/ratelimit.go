package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// limiterPool keeps one token bucket per key with periodic eviction of idle
// entries to bound memory.
type limiterPool[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*pooledLimiter
	rps      float64
	burst    int
}

type pooledLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newLimiterPool[K comparable](ctx context.Context, rps float64, burst int) *limiterPool[K] {
	p := &limiterPool[K]{
		limiters: make(map[K]*pooledLimiter),
		rps:      rps,
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.evictIdle(30 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

func (p *limiterPool[K]) get(key K) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.limiters[key]
	if !ok {
		pl = &pooledLimiter{
			limiter:    rate.NewLimiter(rate.Limit(p.rps), p.burst),
			lastAccess: time.Now(),
		}
		p.limiters[key] = pl
	} else {
		pl.lastAccess = time.Now()
	}
	return pl.limiter
}

func (p *limiterPool[K]) evictIdle(maxIdle time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	for key, pl := range p.limiters {
		if pl.lastAccess.Before(cutoff) {
			delete(p.limiters, key)
		}
	}
}

// RateLimit applies per-tenant rate limiting so one shop's traffic spike
// cannot starve the others.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := TenantIDFromContext(r.Context())
			if !ok {
				// No tenant in context; skip rate limiting.
				next.ServeHTTP(w, r)
				return
			}

			if !pool.get(tenantID).Allow() {
				tooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP applies per-IP rate limiting for routes that run before a
// tenant is known. Uses chi's RealIP middleware value via r.RemoteAddr.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.get(r.RemoteAddr).Allow() {
				tooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter) {
	http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
}
