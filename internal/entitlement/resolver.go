// Package entitlement resolves a tenant's effective configuration: the plan
// registry's tier defaults layered under the tenant's persisted limit
// overrides. Numeric limits are overridable per tenant; feature flags come
// from the registry for the resolved tier, always.
package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/plan"
)

// Snapshot is the authoritative feature/limit view for one tenant.
type Snapshot struct {
	PlanType plan.Type
	Limits   plan.Limits
	Features plan.Features
}

type Resolver struct {
	limits domain.TenantLimitsRepository
}

func NewResolver(limits domain.TenantLimitsRepository) *Resolver {
	return &Resolver{limits: limits}
}

// Resolve builds the effective snapshot for a tenant. A missing override row
// yields Basic defaults; an unrecognized stored plan string is normalized to
// Basic. Store errors propagate so callers can decide the degradation.
func (r *Resolver) Resolve(ctx context.Context, tenantID uuid.UUID) (Snapshot, error) {
	if tenantID == uuid.Nil {
		return Snapshot{}, fmt.Errorf("entitlement.Resolve: %w", domain.ErrTenantRequired)
	}

	override, err := r.limits.GetByTenant(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		def := plan.Get(plan.Basic)
		return Snapshot{PlanType: plan.Basic, Limits: def.DefaultLimits, Features: def.Features}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("entitlement.Resolve: %w", err)
	}

	return Apply(override), nil
}

// Apply layers one override row on top of the registry defaults for its
// tier. Exported separately so callers holding a limits row can reuse it.
func Apply(override *domain.TenantLimits) Snapshot {
	tier := plan.Normalize(override.PlanType)
	def := plan.Get(tier)

	limits := def.DefaultLimits
	if override.MaxProducts != nil {
		limits.MaxProducts = *override.MaxProducts
	}
	if override.MaxCategories != nil {
		limits.MaxCategories = *override.MaxCategories
	}
	if override.MaxCarouselSlides != nil {
		limits.MaxCarouselSlides = *override.MaxCarouselSlides
	}
	if override.MaxStaticPages != nil {
		limits.MaxStaticPages = *override.MaxStaticPages
	}
	if override.MaxImageSizeMB != nil {
		limits.MaxImageSizeMB = *override.MaxImageSizeMB
	}

	// Feature flags are tier-determined, never override-determined.
	return Snapshot{PlanType: tier, Limits: limits, Features: def.Features}
}
