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

type PageRepo struct {
	pool *pgxpool.Pool
}

func NewPageRepo(pool *pgxpool.Pool) *PageRepo {
	return &PageRepo{pool: pool}
}

const pageColumns = `id, tenant_id, slug, title, content, is_published, created_at, updated_at`

func (r *PageRepo) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Page, error) {
	var p domain.Page

	err := r.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 AND slug = $2`,
		tenantID, slug,
	).Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Content, &p.IsPublished,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pageRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("pageRepo.GetBySlug: %w", err)
	}

	return &p, nil
}

func (r *PageRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error) {
	return r.list(ctx, "pageRepo.ListPublished",
		`SELECT `+pageColumns+` FROM pages
		 WHERE tenant_id = $1 AND is_published = true ORDER BY created_at`,
		tenantID)
}

func (r *PageRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error) {
	return r.list(ctx, "pageRepo.ListAll",
		`SELECT `+pageColumns+` FROM pages WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID)
}

func (r *PageRepo) list(ctx context.Context, op, query string, tenantID uuid.UUID) ([]*domain.Page, error) {
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var pages []*domain.Page
	for rows.Next() {
		var p domain.Page
		err = rows.Scan(&p.ID, &p.TenantID, &p.Slug, &p.Title, &p.Content,
			&p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		pages = append(pages, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return pages, nil
}

// CountStatic counts pages excluding the home composition row, which does
// not consume the static-page budget.
func (r *PageRepo) CountStatic(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM pages WHERE tenant_id = $1 AND slug <> $2`,
		tenantID, domain.HomeSlug,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("pageRepo.CountStatic: %w", err)
	}
	return n, nil
}

func (r *PageRepo) Create(ctx context.Context, p *domain.Page) error {
	if p.TenantID == uuid.Nil {
		return fmt.Errorf("pageRepo.Create: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO pages (id, tenant_id, slug, title, content, is_published,
		                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.Slug, p.Title, p.Content, p.IsPublished,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("pageRepo.Create: %w", err)
	}
	return nil
}

func (r *PageRepo) Update(ctx context.Context, p *domain.Page) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pages SET slug = $1, title = $2, content = $3, is_published = $4,
		        updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		p.Slug, p.Title, p.Content, p.IsPublished, p.TenantID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("pageRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pageRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PageRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pages WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("pageRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

type MenuItemRepo struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepo(pool *pgxpool.Pool) *MenuItemRepo {
	return &MenuItemRepo{pool: pool}
}

const menuColumns = `id, tenant_id, label, url, is_visible, display_order, created_at, updated_at`

func (r *MenuItemRepo) ListVisible(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	return r.list(ctx, "menuItemRepo.ListVisible",
		`SELECT `+menuColumns+` FROM menu_items
		 WHERE tenant_id = $1 AND is_visible = true ORDER BY display_order`,
		tenantID)
}

func (r *MenuItemRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	return r.list(ctx, "menuItemRepo.ListAll",
		`SELECT `+menuColumns+` FROM menu_items WHERE tenant_id = $1 ORDER BY display_order`,
		tenantID)
}

func (r *MenuItemRepo) list(ctx context.Context, op, query string, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		err = rows.Scan(&m.ID, &m.TenantID, &m.Label, &m.URL, &m.IsVisible,
			&m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return items, nil
}

func (r *MenuItemRepo) Create(ctx context.Context, m *domain.MenuItem) error {
	if m.TenantID == uuid.Nil {
		return fmt.Errorf("menuItemRepo.Create: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO menu_items (id, tenant_id, label, url, is_visible, display_order,
		                         created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.TenantID, m.Label, m.URL, m.IsVisible, m.DisplayOrder,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Create: %w", err)
	}
	return nil
}

func (r *MenuItemRepo) Update(ctx context.Context, m *domain.MenuItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items SET label = $1, url = $2, is_visible = $3, display_order = $4,
		        updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		m.Label, m.URL, m.IsVisible, m.DisplayOrder, m.TenantID, m.ID,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menuItemRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *MenuItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM menu_items WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("menuItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menuItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

type NavbarConfigRepo struct {
	pool *pgxpool.Pool
}

func NewNavbarConfigRepo(pool *pgxpool.Pool) *NavbarConfigRepo {
	return &NavbarConfigRepo{pool: pool}
}

func (r *NavbarConfigRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.NavbarConfig, error) {
	var c domain.NavbarConfig

	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, style, logo_url, show_search, updated_at
		 FROM navbar_config WHERE tenant_id = $1`,
		tenantID,
	).Scan(&c.TenantID, &c.Style, &c.LogoURL, &c.ShowSearch, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("navbarConfigRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("navbarConfigRepo.Get: %w", err)
	}

	return &c, nil
}

func (r *NavbarConfigRepo) Upsert(ctx context.Context, c *domain.NavbarConfig) error {
	if c.TenantID == uuid.Nil {
		return fmt.Errorf("navbarConfigRepo.Upsert: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO navbar_config (tenant_id, style, logo_url, show_search, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   style = EXCLUDED.style,
		   logo_url = EXCLUDED.logo_url,
		   show_search = EXCLUDED.show_search,
		   updated_at = now()`,
		c.TenantID, c.Style, c.LogoURL, c.ShowSearch,
	)
	if err != nil {
		return fmt.Errorf("navbarConfigRepo.Upsert: %w", err)
	}
	return nil
}

type SiteProfileRepo struct {
	pool *pgxpool.Pool
}

func NewSiteProfileRepo(pool *pgxpool.Pool) *SiteProfileRepo {
	return &SiteProfileRepo{pool: pool}
}

func (r *SiteProfileRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.SiteProfile, error) {
	var p domain.SiteProfile

	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, site_title, description, theme, favicon_url, contact_email, updated_at
		 FROM profiles WHERE tenant_id = $1`,
		tenantID,
	).Scan(&p.TenantID, &p.SiteTitle, &p.Description, &p.Theme, &p.FaviconURL,
		&p.ContactEmail, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("siteProfileRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("siteProfileRepo.Get: %w", err)
	}

	return &p, nil
}

func (r *SiteProfileRepo) Upsert(ctx context.Context, p *domain.SiteProfile) error {
	if p.TenantID == uuid.Nil {
		return fmt.Errorf("siteProfileRepo.Upsert: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO profiles (tenant_id, site_title, description, theme, favicon_url,
		                       contact_email, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   site_title = EXCLUDED.site_title,
		   description = EXCLUDED.description,
		   theme = EXCLUDED.theme,
		   favicon_url = EXCLUDED.favicon_url,
		   contact_email = EXCLUDED.contact_email,
		   updated_at = now()`,
		p.TenantID, p.SiteTitle, p.Description, p.Theme, p.FaviconURL, p.ContactEmail,
	)
	if err != nil {
		return fmt.Errorf("siteProfileRepo.Upsert: %w", err)
	}
	return nil
}
