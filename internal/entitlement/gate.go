package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/domain"
)

// Resource names a limit-gated record kind.
type Resource string

const (
	ResourceProducts       Resource = "products"
	ResourceCategories     Resource = "categories"
	ResourceCarouselSlides Resource = "carousel_slides"
	ResourceStaticPages    Resource = "static_pages"
)

// Gate enforces plan limits on admin mutations. It fails open on store
// outages (availability over strictness, matching the read paths) but fails
// closed the moment a resolved limit is reached.
type Gate struct {
	entitlements *Resolver
}

func NewGate(entitlements *Resolver) *Gate {
	return &Gate{entitlements: entitlements}
}

// CheckLimit rejects a create when the tenant already holds currentCount
// records of the resource and the effective limit allows no more.
func (g *Gate) CheckLimit(ctx context.Context, tenantID uuid.UUID, resource Resource, currentCount int) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("entitlement.CheckLimit: %w", domain.ErrTenantRequired)
	}

	snap, err := g.entitlements.Resolve(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantRequired) {
			return err
		}
		log.Warn().Err(err).Stringer("tenant_id", tenantID).Msg("limit check degraded, allowing")
		return nil
	}

	limit := limitFor(snap, resource)
	if currentCount >= limit {
		return fmt.Errorf("entitlement.CheckLimit: %s at %d of %d: %w",
			resource, currentCount, limit, domain.ErrLimitExceeded)
	}

	return nil
}

// CheckImageSize rejects uploads larger than the effective per-image cap.
func (g *Gate) CheckImageSize(ctx context.Context, tenantID uuid.UUID, sizeMB float64) error {
	snap, err := g.entitlements.Resolve(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantRequired) {
			return err
		}
		log.Warn().Err(err).Stringer("tenant_id", tenantID).Msg("image size check degraded, allowing")
		return nil
	}

	if sizeMB > snap.Limits.MaxImageSizeMB {
		return fmt.Errorf("entitlement.CheckImageSize: %.1fMB over %.1fMB cap: %w",
			sizeMB, snap.Limits.MaxImageSizeMB, domain.ErrLimitExceeded)
	}

	return nil
}

func limitFor(snap Snapshot, resource Resource) int {
	switch resource {
	case ResourceProducts:
		return snap.Limits.MaxProducts
	case ResourceCategories:
		return snap.Limits.MaxCategories
	case ResourceCarouselSlides:
		return snap.Limits.MaxCarouselSlides
	case ResourceStaticPages:
		return snap.Limits.MaxStaticPages
	default:
		return 0
	}
}
