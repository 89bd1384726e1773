// Package realtime keeps the query cache coherent with content changes
// arriving over the change feed. Losing the feed degrades freshness latency
// only; every read path still refetches per its own policy.
package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/domain"
)

// Feed is the change-notification channel, scoped per tenant.
// *redis.ChangeFeed satisfies this interface.
type Feed interface {
	Subscribe(ctx context.Context, tenantID uuid.UUID) (<-chan domain.ChangeEvent, func(), error)
}

// Invalidator holds at most one live feed subscription and translates its
// events into targeted cache invalidations.
type Invalidator struct {
	cache *cache.Store
	feed  Feed

	mu       sync.Mutex
	tenantID uuid.UUID
	cancel   context.CancelFunc
	cleanup  func()
	done     chan struct{}
}

func NewInvalidator(c *cache.Store, feed Feed) *Invalidator {
	return &Invalidator{cache: c, feed: feed}
}

// Start subscribes to the feed for tenantID. Any previous subscription is
// released first; two subscriptions are never live concurrently.
func (i *Invalidator) Start(ctx context.Context, tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("realtime.Start: %w", domain.ErrTenantRequired)
	}

	i.Stop()

	subCtx, cancel := context.WithCancel(ctx)
	events, cleanup, err := i.feed.Subscribe(subCtx, tenantID)
	if err != nil {
		cancel()
		return fmt.Errorf("realtime.Start: subscribe tenant %s: %w", tenantID, err)
	}

	done := make(chan struct{})

	i.mu.Lock()
	i.tenantID = tenantID
	i.cancel = cancel
	i.cleanup = cleanup
	i.done = done
	i.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			i.handle(tenantID, ev)
		}
	}()

	return nil
}

// Stop releases the current subscription, if any, and waits for the event
// loop to drain.
func (i *Invalidator) Stop() {
	i.mu.Lock()
	cancel, cleanup, done := i.cancel, i.cleanup, i.done
	i.cancel, i.cleanup, i.done = nil, nil, nil
	i.tenantID = uuid.Nil
	i.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if cleanup != nil {
		cleanup()
	}
	if done != nil {
		<-done
	}
}

// TenantID returns the tenant of the live subscription, or uuid.Nil.
func (i *Invalidator) TenantID() uuid.UUID {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.tenantID
}

func (i *Invalidator) handle(tenantID uuid.UUID, ev domain.ChangeEvent) {
	// The feed is already tenant-filtered; a mismatched event would cross
	// tenants, so it is dropped rather than trusted.
	if ev.TenantID != tenantID {
		log.Warn().
			Stringer("subscribed", tenantID).
			Stringer("event_tenant", ev.TenantID).
			Str("table", ev.Table).
			Msg("dropping change event for foreign tenant")
		return
	}

	queries := routeEvent(ev)
	if len(queries) == 0 {
		log.Debug().Str("table", ev.Table).Msg("change event for unmapped table")
		return
	}

	for _, q := range queries {
		n := i.cache.InvalidatePrefix(cache.Prefix(q, tenantID))
		log.Debug().
			Str("table", ev.Table).
			Str("query", q).
			Int("entries", n).
			Stringer("tenant_id", tenantID).
			Msg("cache invalidated")
	}
}
