package redis_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vitrinhq/vitrin/internal/domain"
	redisstore "github.com/vitrinhq/vitrin/internal/store/redis"
)

func TestTenantChannel(t *testing.T) {
	t.Parallel()

	tenantID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.TenantChannel(tenantID)
		assert.Equal(t, "cms:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.TenantChannel(tenantID)
		assert.True(t, strings.HasPrefix(got, "cms:"), "expected prefix 'cms:', got %q", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		a := redisstore.TenantChannel(tenantID)
		b := redisstore.TenantChannel(tenantID)
		assert.Equal(t, a, b)
	})

	t.Run("different tenants produce different channels", func(t *testing.T) {
		t.Parallel()

		other := uuid.MustParse("99999999-8888-7777-6666-555544443333")
		assert.NotEqual(t, redisstore.TenantChannel(tenantID), redisstore.TenantChannel(other))
	})
}

func TestPublishRejectsNilTenant(t *testing.T) {
	t.Parallel()

	// A nil feed never touches the client: the tenant check runs first, so
	// a broadcast without an owning tenant can never reach the wire.
	var feed redisstore.ChangeFeed

	err := feed.Publish(context.Background(), domain.ChangeEvent{
		Table: "products",
		Op:    domain.ChangeUpdate,
	})

	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}

func TestSubscribeRejectsNilTenant(t *testing.T) {
	t.Parallel()

	var feed redisstore.ChangeFeed

	_, _, err := feed.Subscribe(context.Background(), uuid.Nil)

	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}
