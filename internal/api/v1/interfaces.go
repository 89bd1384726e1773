package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/entitlement"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	DomainBindings() domain.DomainBindingRepository
	TenantLimits() domain.TenantLimitsRepository
	Products() domain.ProductRepository
	Categories() domain.CategoryRepository
	CarouselSlides() domain.CarouselSlideRepository
	Pages() domain.PageRepository
	MenuItems() domain.MenuItemRepository
	NavbarConfigs() domain.NavbarConfigRepository
	SiteProfiles() domain.SiteProfileRepository
}

// ChangePublisher emits row-change events on the change feed after a
// successful mutation. *redis.ChangeFeed satisfies this interface.
type ChangePublisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent) error
}

// Services bundles what the handlers need: the record store, the query
// cache with its freshness policies, the entitlement gate, and the change
// publisher.
type Services struct {
	Store        DataStore
	Cache        *cache.Store
	Entitlements *entitlement.Resolver
	Gate         *entitlement.Gate
	Publisher    ChangePublisher

	// ContentPolicy governs storefront content reads; NavPolicy is the
	// drop-on-invalidate variant for navigation, where stale chrome reads
	// worse than a loading state; FeaturePolicy governs plan lookups.
	ContentPolicy cache.Policy
	NavPolicy     cache.Policy
	FeaturePolicy cache.Policy
}

// mapError converts domain sentinel errors into API status errors.
func mapError(msg string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, domain.ErrLimitExceeded):
		return huma.Error403Forbidden(msg, err)
	case errors.Is(err, domain.ErrTenantRequired):
		return huma.Error403Forbidden(msg, err)
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
