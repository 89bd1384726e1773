// Package redis carries the change-notification channel over Redis pub/sub.
// Admin mutation handlers publish row changes; the realtime invalidator and
// the storefront WebSocket hub subscribe per tenant.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/domain"
)

type ChangeFeed struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*ChangeFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &ChangeFeed{client: client}, nil
}

func (f *ChangeFeed) Close() error {
	if err := f.client.Close(); err != nil {
		return fmt.Errorf("redis.ChangeFeed.Close: %w", err)
	}
	return nil
}

// Ping reports feed reachability for health checks.
func (f *ChangeFeed) Ping(ctx context.Context) error {
	if err := f.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis.ChangeFeed.Ping: %w", err)
	}
	return nil
}

// Publish emits one change event on the owning tenant's channel. Events
// without a tenant id are rejected outright; publishing a row change that
// could fan out to every tenant is never acceptable.
func (f *ChangeFeed) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	if ev.TenantID == uuid.Nil {
		return fmt.Errorf("redis.ChangeFeed.Publish: table %q: %w", ev.Table, domain.ErrTenantRequired)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.ChangeFeed.Publish: marshal: %w", err)
	}

	if err := f.client.Publish(ctx, TenantChannel(ev.TenantID), payload).Err(); err != nil {
		return fmt.Errorf("redis.ChangeFeed.Publish: %w", err)
	}
	return nil
}

// Subscribe opens a tenant-scoped event stream. The returned cleanup must be
// called before opening another subscription from the same consumer.
func (f *ChangeFeed) Subscribe(ctx context.Context, tenantID uuid.UUID) (<-chan domain.ChangeEvent, func(), error) {
	if tenantID == uuid.Nil {
		return nil, nil, fmt.Errorf("redis.ChangeFeed.Subscribe: %w", domain.ErrTenantRequired)
	}

	sub := f.client.Subscribe(ctx, TenantChannel(tenantID))

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.ChangeFeed.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan domain.ChangeEvent, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				var ev domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn().Err(err).Stringer("tenant_id", tenantID).Msg("malformed change event dropped")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// TenantChannel returns the Redis channel name carrying one tenant's CMS
// change events.
func TenantChannel(tenantID uuid.UUID) string {
	return "cms:" + tenantID.String()
}
