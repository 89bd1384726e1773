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

const productColumns = `id, tenant_id, category_id, name, slug, description,
	price_cents, image_url, video_url, is_published, display_order, created_at, updated_at`

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.PriceCents, &p.ImageURL, &p.VideoURL, &p.IsPublished, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND slug = $2`,
		tenantID, slug,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("productRepo.GetBySlug: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("productRepo.GetBySlug: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return r.list(ctx, "productRepo.ListPublished",
		`SELECT `+productColumns+` FROM products
		 WHERE tenant_id = $1 AND is_published = true ORDER BY display_order`,
		tenantID)
}

func (r *ProductRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return r.list(ctx, "productRepo.ListAll",
		`SELECT `+productColumns+` FROM products
		 WHERE tenant_id = $1 ORDER BY display_order`,
		tenantID)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, tenantID uuid.UUID) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return products, nil
}

func (r *ProductRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE tenant_id = $1`, tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("productRepo.Count: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.TenantID == uuid.Nil {
		return fmt.Errorf("productRepo.Create: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, tenant_id, category_id, name, slug, description,
		                       price_cents, image_url, video_url, is_published, display_order,
		                       created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.TenantID, p.CategoryID, p.Name, p.Slug, p.Description,
		p.PriceCents, p.ImageURL, p.VideoURL, p.IsPublished, p.DisplayOrder,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET category_id = $1, name = $2, slug = $3, description = $4,
		        price_cents = $5, image_url = $6, video_url = $7, is_published = $8,
		        display_order = $9, updated_at = now()
		 WHERE tenant_id = $10 AND id = $11`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.PriceCents, p.ImageURL,
		p.VideoURL, p.IsPublished, p.DisplayOrder, p.TenantID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("productRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("productRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("productRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("productRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

const categoryColumns = `id, tenant_id, name, slug, image_url, is_published, display_order, created_at, updated_at`

func (r *CategoryRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	return r.list(ctx, "categoryRepo.ListPublished",
		`SELECT `+categoryColumns+` FROM categories
		 WHERE tenant_id = $1 AND is_published = true ORDER BY display_order`,
		tenantID)
}

func (r *CategoryRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	return r.list(ctx, "categoryRepo.ListAll",
		`SELECT `+categoryColumns+` FROM categories
		 WHERE tenant_id = $1 ORDER BY display_order`,
		tenantID)
}

func (r *CategoryRepo) list(ctx context.Context, op, query string, tenantID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		err = rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Slug, &c.ImageURL,
			&c.IsPublished, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return categories, nil
}

func (r *CategoryRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM categories WHERE tenant_id = $1`, tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("categoryRepo.Count: %w", err)
	}
	return n, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.TenantID == uuid.Nil {
		return fmt.Errorf("categoryRepo.Create: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, slug, image_url, is_published,
		                         display_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.TenantID, c.Name, c.Slug, c.ImageURL, c.IsPublished,
		c.DisplayOrder, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Create: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, slug = $2, image_url = $3, is_published = $4,
		        display_order = $5, updated_at = now()
		 WHERE tenant_id = $6 AND id = $7`,
		c.Name, c.Slug, c.ImageURL, c.IsPublished, c.DisplayOrder, c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("categoryRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("categoryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("categoryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

type CarouselSlideRepo struct {
	pool *pgxpool.Pool
}

func NewCarouselSlideRepo(pool *pgxpool.Pool) *CarouselSlideRepo {
	return &CarouselSlideRepo{pool: pool}
}

const slideColumns = `id, tenant_id, image_url, title, subtitle, cta_label, cta_link,
	is_active, display_order, created_at, updated_at`

func (r *CarouselSlideRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error) {
	return r.list(ctx, "carouselSlideRepo.ListActive",
		`SELECT `+slideColumns+` FROM carousel_slides
		 WHERE tenant_id = $1 AND is_active = true ORDER BY display_order`,
		tenantID)
}

func (r *CarouselSlideRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error) {
	return r.list(ctx, "carouselSlideRepo.ListAll",
		`SELECT `+slideColumns+` FROM carousel_slides
		 WHERE tenant_id = $1 ORDER BY display_order`,
		tenantID)
}

func (r *CarouselSlideRepo) list(ctx context.Context, op, query string, tenantID uuid.UUID) ([]*domain.CarouselSlide, error) {
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var slides []*domain.CarouselSlide
	for rows.Next() {
		var s domain.CarouselSlide
		err = rows.Scan(&s.ID, &s.TenantID, &s.ImageURL, &s.Title, &s.Subtitle,
			&s.CTALabel, &s.CTALink, &s.IsActive, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		slides = append(slides, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return slides, nil
}

func (r *CarouselSlideRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM carousel_slides WHERE tenant_id = $1`, tenantID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("carouselSlideRepo.Count: %w", err)
	}
	return n, nil
}

func (r *CarouselSlideRepo) Create(ctx context.Context, s *domain.CarouselSlide) error {
	if s.TenantID == uuid.Nil {
		return fmt.Errorf("carouselSlideRepo.Create: %w", domain.ErrTenantRequired)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO carousel_slides (id, tenant_id, image_url, title, subtitle,
		                              cta_label, cta_link, is_active, display_order,
		                              created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.TenantID, s.ImageURL, s.Title, s.Subtitle, s.CTALabel, s.CTALink,
		s.IsActive, s.DisplayOrder, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("carouselSlideRepo.Create: %w", err)
	}
	return nil
}

func (r *CarouselSlideRepo) Update(ctx context.Context, s *domain.CarouselSlide) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE carousel_slides SET image_url = $1, title = $2, subtitle = $3,
		        cta_label = $4, cta_link = $5, is_active = $6, display_order = $7,
		        updated_at = now()
		 WHERE tenant_id = $8 AND id = $9`,
		s.ImageURL, s.Title, s.Subtitle, s.CTALabel, s.CTALink, s.IsActive,
		s.DisplayOrder, s.TenantID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("carouselSlideRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("carouselSlideRepo.Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *CarouselSlideRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM carousel_slides WHERE tenant_id = $1 AND id = $2`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("carouselSlideRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("carouselSlideRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
