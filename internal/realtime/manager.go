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

// Manager maintains one Invalidator per tenant the server is actively
// serving. Subscriptions are started lazily on first request and live on the
// manager's own context, not the request's, so they outlive the request that
// triggered them.
type Manager struct {
	ctx   context.Context
	cache *cache.Store
	feed  Feed

	mu      sync.Mutex
	tenants map[uuid.UUID]*Invalidator
}

func NewManager(ctx context.Context, c *cache.Store, feed Feed) *Manager {
	return &Manager{
		ctx:     ctx,
		cache:   c,
		feed:    feed,
		tenants: make(map[uuid.UUID]*Invalidator),
	}
}

// Ensure guarantees a live subscription for tenantID, starting one if needed.
// Idempotent for an already-subscribed tenant.
func (m *Manager) Ensure(tenantID uuid.UUID) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("realtime.Ensure: %w", domain.ErrTenantRequired)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tenants[tenantID]; ok {
		return nil
	}

	inv := NewInvalidator(m.cache, m.feed)
	if err := inv.Start(m.ctx, tenantID); err != nil {
		return fmt.Errorf("realtime.Ensure: %w", err)
	}
	m.tenants[tenantID] = inv

	log.Info().Stringer("tenant_id", tenantID).Msg("change feed subscription started")
	return nil
}

// Release stops the subscription for tenantID, if any.
func (m *Manager) Release(tenantID uuid.UUID) {
	m.mu.Lock()
	inv, ok := m.tenants[tenantID]
	delete(m.tenants, tenantID)
	m.mu.Unlock()

	if ok {
		inv.Stop()
	}
}

// StopAll releases every subscription. Used during shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	invs := make([]*Invalidator, 0, len(m.tenants))
	for _, inv := range m.tenants {
		invs = append(invs, inv)
	}
	m.tenants = make(map[uuid.UUID]*Invalidator)
	m.mu.Unlock()

	for _, inv := range invs {
		inv.Stop()
	}
}

// Len reports the number of live subscriptions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tenants)
}
