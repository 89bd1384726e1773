package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CategoryID   *uuid.UUID
	Name         string
	Slug         string
	Description  string
	PriceCents   int64
	ImageURL     string
	VideoURL     string
	IsPublished  bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Slug         string
	ImageURL     string
	IsPublished  bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CarouselSlide struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ImageURL     string
	Title        string
	Subtitle     string
	CTALabel     string
	CTALink      string
	IsActive     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProductRepository interface {
	GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Product, error)
	ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type CategoryRepository interface {
	ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*Category, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*Category, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type CarouselSlideRepository interface {
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*CarouselSlide, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]*CarouselSlide, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	Create(ctx context.Context, s *CarouselSlide) error
	Update(ctx context.Context, s *CarouselSlide) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
