package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrinhq/vitrin/internal/domain"
)

type TenantLimitsRepo struct {
	pool *pgxpool.Pool
}

func NewTenantLimitsRepo(pool *pgxpool.Pool) *TenantLimitsRepo {
	return &TenantLimitsRepo{pool: pool}
}

func (r *TenantLimitsRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.TenantLimits, error) {
	var l domain.TenantLimits

	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, plan_type, max_products, max_categories,
		        max_carousel_slides, max_static_pages, max_image_size_mb, updated_at
		 FROM tenant_limits WHERE tenant_id = $1`,
		tenantID,
	).Scan(&l.TenantID, &l.PlanType, &l.MaxProducts, &l.MaxCategories,
		&l.MaxCarouselSlides, &l.MaxStaticPages, &l.MaxImageSizeMB, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantLimitsRepo.GetByTenant: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantLimitsRepo.GetByTenant: %w", err)
	}

	return &l, nil
}

func (r *TenantLimitsRepo) Upsert(ctx context.Context, limits *domain.TenantLimits) error {
	if limits.TenantID == uuid.Nil {
		return fmt.Errorf("tenantLimitsRepo.Upsert: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenant_limits (tenant_id, plan_type, max_products, max_categories,
		                            max_carousel_slides, max_static_pages, max_image_size_mb, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   plan_type = EXCLUDED.plan_type,
		   max_products = EXCLUDED.max_products,
		   max_categories = EXCLUDED.max_categories,
		   max_carousel_slides = EXCLUDED.max_carousel_slides,
		   max_static_pages = EXCLUDED.max_static_pages,
		   max_image_size_mb = EXCLUDED.max_image_size_mb,
		   updated_at = now()`,
		limits.TenantID, limits.PlanType, limits.MaxProducts, limits.MaxCategories,
		limits.MaxCarouselSlides, limits.MaxStaticPages, limits.MaxImageSizeMB,
	)
	if err != nil {
		return fmt.Errorf("tenantLimitsRepo.Upsert: %w", err)
	}

	return nil
}
