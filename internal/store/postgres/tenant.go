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

type TenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepo(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

func (r *TenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var t domain.Tenant

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, subdomain, status, created_at, updated_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Subdomain, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}

	return &t, nil
}

func (r *TenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	var t domain.Tenant

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, subdomain, status, created_at, updated_at
		 FROM tenants WHERE subdomain = $1`,
		subdomain,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Subdomain, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantRepo.GetBySubdomain: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.GetBySubdomain: %w", err)
	}

	return &t, nil
}

func (r *TenantRepo) ListPaginated(ctx context.Context, limit, offset int) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, subdomain, status, created_at, updated_at
		 FROM tenants ORDER BY created_at
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListPaginated: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant

		err = rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Subdomain, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("tenantRepo.ListPaginated: scan: %w", err)
		}

		tenants = append(tenants, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListPaginated: rows: %w", err)
	}

	return tenants, nil
}

type DomainBindingRepo struct {
	pool *pgxpool.Pool
}

func NewDomainBindingRepo(pool *pgxpool.Pool) *DomainBindingRepo {
	return &DomainBindingRepo{pool: pool}
}

func (r *DomainBindingRepo) GetVerified(ctx context.Context, dom string) (*domain.DomainBinding, error) {
	var b domain.DomainBinding

	err := r.pool.QueryRow(ctx,
		`SELECT domain, tenant_id, is_verified, is_primary, created_at
		 FROM tenant_domains WHERE domain = $1 AND is_verified = true`,
		dom,
	).Scan(&b.Domain, &b.TenantID, &b.IsVerified, &b.IsPrimary, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("domainBindingRepo.GetVerified: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("domainBindingRepo.GetVerified: %w", err)
	}

	return &b, nil
}

func (r *DomainBindingRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.DomainBinding, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT domain, tenant_id, is_verified, is_primary, created_at
		 FROM tenant_domains WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("domainBindingRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	var bindings []*domain.DomainBinding
	for rows.Next() {
		var b domain.DomainBinding

		err = rows.Scan(&b.Domain, &b.TenantID, &b.IsVerified, &b.IsPrimary, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("domainBindingRepo.ListByTenant: scan: %w", err)
		}

		bindings = append(bindings, &b)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("domainBindingRepo.ListByTenant: rows: %w", err)
	}

	return bindings, nil
}
