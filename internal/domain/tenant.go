package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantStatus is the provisioning state of a shop. Only active tenants are
// served; everything else resolves to the default storefront.
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
)

type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Subdomain string
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the tenant may be resolved and served.
func (t *Tenant) Active() bool {
	return t != nil && t.Status == TenantActive
}

// DomainBinding maps a verified custom hostname to a tenant. Domains are
// stored lowercase without scheme or port.
type DomainBinding struct {
	Domain     string
	TenantID   uuid.UUID
	IsVerified bool
	IsPrimary  bool
	CreatedAt  time.Time
}

// Tenants are provisioned out of band; the storefront core only reads them.
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]*Tenant, error)
}

type DomainBindingRepository interface {
	// GetVerified looks up the verified binding for a normalized hostname.
	GetVerified(ctx context.Context, domain string) (*DomainBinding, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*DomainBinding, error)
}
