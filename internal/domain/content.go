package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HomeSlug is the page slug whose sections compose the storefront home page.
const HomeSlug = "home"

// Page is an editor-authored page. The page with slug "home" holds the home
// composition sections; every other slug is a static page.
type Page struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Slug        string
	Title       string
	Content     string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Label        string
	URL          string
	IsVisible    bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NavbarConfig is a singleton row per tenant.
type NavbarConfig struct {
	TenantID   uuid.UUID
	Style      string
	LogoURL    string
	ShowSearch bool
	UpdatedAt  time.Time
}

// SiteProfile holds tenant branding read by every public page.
type SiteProfile struct {
	TenantID     uuid.UUID
	SiteTitle    string
	Description  string
	Theme        string
	FaviconURL   string
	ContactEmail string
	UpdatedAt    time.Time
}

type PageRepository interface {
	GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error)
	ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*Page, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*Page, error)
	CountStatic(ctx context.Context, tenantID uuid.UUID) (int, error)
	Create(ctx context.Context, p *Page) error
	Update(ctx context.Context, p *Page) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type MenuItemRepository interface {
	ListVisible(ctx context.Context, tenantID uuid.UUID) ([]*MenuItem, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*MenuItem, error)
	Create(ctx context.Context, m *MenuItem) error
	Update(ctx context.Context, m *MenuItem) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type NavbarConfigRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*NavbarConfig, error)
	Upsert(ctx context.Context, c *NavbarConfig) error
}

type SiteProfileRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*SiteProfile, error)
	Upsert(ctx context.Context, p *SiteProfile) error
}
