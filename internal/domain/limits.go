package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantLimits is a tenant's persisted limit override row. At most one row
// exists per tenant. Nil fields fall back to the plan-tier default; PlanType
// strings outside the known tiers are normalized to basic at read time.
type TenantLimits struct {
	TenantID          uuid.UUID
	PlanType          string
	MaxProducts       *int
	MaxCategories     *int
	MaxCarouselSlides *int
	MaxStaticPages    *int
	MaxImageSizeMB    *float64
	UpdatedAt         time.Time
}

type TenantLimitsRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*TenantLimits, error)
	Upsert(ctx context.Context, limits *TenantLimits) error
}
