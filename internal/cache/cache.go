// Package cache is a keyed read-through cache for tenant-scoped queries.
// Every key carries its tenant id, so no read or invalidation can cross
// tenants. Each key admits at most one in-flight fetch (concurrent callers
// coalesce onto it), and a per-key generation counter guarantees that a slow
// superseded fetch never clobbers a newer result.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/domain"
)

// Key identifies one cached query result. Always built through NewKey so the
// tenant id is part of the key.
type Key string

// NewKey composes a cache key from a logical query name, the owning tenant,
// and optional discriminators such as a page slug.
func NewKey(logical string, tenantID uuid.UUID, discriminators ...string) (Key, error) {
	if tenantID == uuid.Nil {
		return "", fmt.Errorf("cache.NewKey: %q: %w", logical, domain.ErrTenantRequired)
	}
	parts := append([]string{logical, tenantID.String()}, discriminators...)
	return Key(strings.Join(parts, ":")), nil
}

// Prefix returns the key prefix covering every discriminator of one logical
// query for one tenant. Used by invalidation.
func Prefix(logical string, tenantID uuid.UUID) string {
	return logical + ":" + tenantID.String()
}

// Policy carries the freshness rule for one read.
type Policy struct {
	// StaleTime is how long a landed value stays fresh. Zero means a value
	// is stale as soon as it lands (refetch on every read).
	StaleTime time.Duration
	// DropOnInvalidate removes the entry on invalidation instead of marking
	// it stale, for content where serving a stale value reads worse than a
	// loading state.
	DropOnInvalidate bool
}

// Fetcher loads the value for a key from the record store.
type Fetcher func(ctx context.Context) (any, error)

type inflight struct {
	done  chan struct{}
	value any
	err   error
}

type entry struct {
	value            any
	has              bool
	fetchedAt        time.Time
	stale            bool
	err              error
	generation       uint64
	inflight         *inflight
	dropOnInvalidate bool
}

// Store is the process-wide query cache. Only the fetch path writes values;
// the realtime invalidator only marks or drops.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	clock   clock.Clock
}

func New() *Store {
	return NewWithClock(clock.New())
}

// NewWithClock injects a clock for deterministic expiry tests.
func NewWithClock(c clock.Clock) *Store {
	return &Store{entries: make(map[Key]*entry), clock: c}
}

// GetOrFetch returns the cached value for key, fetching through fetcher when
// the entry is missing, stale, or older than the policy's StaleTime. Callers
// racing on the same key share one fetch. On fetch failure the previous
// value is kept, flagged via Stale, and the error is returned.
func (s *Store) GetOrFetch(ctx context.Context, key Key, policy Policy, fetcher Fetcher) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.dropOnInvalidate = policy.DropOnInvalidate

	if e.has && !e.stale && policy.StaleTime > 0 && s.clock.Now().Sub(e.fetchedAt) < policy.StaleTime {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}

	if fl := e.inflight; fl != nil {
		s.mu.Unlock()
		return waitInflight(ctx, fl)
	}

	e.generation++
	gen := e.generation
	fl := &inflight{done: make(chan struct{})}
	e.inflight = fl
	s.mu.Unlock()

	value, err := fetcher(ctx)

	s.mu.Lock()
	// Apply only when this fetch is still the current generation for a live
	// entry; invalidation or removal during the fetch supersedes it.
	if cur, live := s.entries[key]; live && cur == e && e.generation == gen {
		if err == nil {
			e.value = value
			e.has = true
			e.fetchedAt = s.clock.Now()
			e.stale = false
			e.err = nil
		} else {
			e.stale = true
			e.err = err
		}
		if e.inflight == fl {
			e.inflight = nil
		}
	}
	s.mu.Unlock()

	fl.value, fl.err = value, err
	close(fl.done)

	return value, err
}

func waitInflight(ctx context.Context, fl *inflight) (any, error) {
	select {
	case <-fl.done:
		return fl.value, fl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stale returns the last landed value for key along with the error recorded
// by the most recent failed fetch, if any. Lets callers serve stale content
// with an error flag after GetOrFetch fails.
func (s *Store) Stale(key Key) (any, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.has {
		return nil, nil, false
	}
	return e.value, e.err, true
}

// Invalidate marks one key stale (or drops it, per its recorded policy) and
// bumps its generation so any in-flight fetch result is discarded.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(key)
}

// InvalidatePrefix invalidates every key sharing prefix. Prefixes embed the
// tenant id, so invalidation never reaches another tenant's entries.
func (s *Store) InvalidatePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.entries {
		if strings.HasPrefix(string(key), prefix) {
			s.invalidateLocked(key)
			n++
		}
	}
	return n
}

func (s *Store) invalidateLocked(key Key) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	if e.dropOnInvalidate {
		delete(s.entries, key)
		return
	}
	e.stale = true
	e.generation++
	e.inflight = nil
}

// Remove drops one key outright; the next read refetches from scratch.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len reports the number of resident entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Fetch is the typed wrapper around Store.GetOrFetch.
func Fetch[T any](ctx context.Context, s *Store, key Key, policy Policy, fetcher func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.GetOrFetch(ctx, key, policy, func(ctx context.Context) (any, error) {
		return fetcher(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache.Fetch: %s holds %T", key, v)
	}
	return t, nil
}
