package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitrinhq/vitrin/internal/domain"
)

type Store struct {
	pool       *pgxpool.Pool
	tenants    *TenantRepo
	bindings   *DomainBindingRepo
	limits     *TenantLimitsRepo
	products   *ProductRepo
	categories *CategoryRepo
	slides     *CarouselSlideRepo
	pages      *PageRepo
	menuItems  *MenuItemRepo
	navbar     *NavbarConfigRepo
	profiles   *SiteProfileRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:       pool,
		tenants:    NewTenantRepo(pool),
		bindings:   NewDomainBindingRepo(pool),
		limits:     NewTenantLimitsRepo(pool),
		products:   NewProductRepo(pool),
		categories: NewCategoryRepo(pool),
		slides:     NewCarouselSlideRepo(pool),
		pages:      NewPageRepo(pool),
		menuItems:  NewMenuItemRepo(pool),
		navbar:     NewNavbarConfigRepo(pool),
		profiles:   NewSiteProfileRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports store reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres.Store.Ping: %w", err)
	}
	return nil
}

func (s *Store) Tenants() domain.TenantRepository                { return s.tenants }
func (s *Store) DomainBindings() domain.DomainBindingRepository  { return s.bindings }
func (s *Store) TenantLimits() domain.TenantLimitsRepository     { return s.limits }
func (s *Store) Products() domain.ProductRepository              { return s.products }
func (s *Store) Categories() domain.CategoryRepository           { return s.categories }
func (s *Store) CarouselSlides() domain.CarouselSlideRepository  { return s.slides }
func (s *Store) Pages() domain.PageRepository                    { return s.pages }
func (s *Store) MenuItems() domain.MenuItemRepository            { return s.menuItems }
func (s *Store) NavbarConfigs() domain.NavbarConfigRepository    { return s.navbar }
func (s *Store) SiteProfiles() domain.SiteProfileRepository      { return s.profiles }
