package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	v1 "github.com/vitrinhq/vitrin/internal/api/v1"
	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/entitlement"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
	"github.com/vitrinhq/vitrin/internal/tenant"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/resolution/role into context for DoCtx
// ---------------------------------------------------------------------------

// storefrontCtx mimics ResolveTenant: a hostname resolved to an active shop.
func storefrontCtx(shop *domain.Tenant) context.Context {
	res := tenant.Resolution{Kind: tenant.KindTenant, Tenant: shop}
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyResolution, res)
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, shop.ID)
	return ctx
}

// noTenantCtx mimics ResolveTenant on an unbound hostname.
func noTenantCtx() context.Context {
	res := tenant.Resolution{Kind: tenant.KindNone}
	return context.WithValue(context.Background(), middleware.ContextKeyResolution, res)
}

// tenantCtx mimics the Auth middleware: a verified token for one tenant.
func tenantCtx(tenantID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyTenantID, tenantID)
}

func adminCtx(tenantID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	return context.WithValue(ctx, middleware.ContextKeyUserRole, "admin")
}

// ---------------------------------------------------------------------------
// Services builder
// ---------------------------------------------------------------------------

// newServices wires a Services around the mock store with a fresh cache, the
// real entitlement resolver/gate, and a capturing publisher.
func newServices(store *mockDataStore) (*v1.Services, *mockPublisher) {
	pub := &mockPublisher{}
	limits := store.tenantLimits
	if limits == nil {
		limits = &mockTenantLimitsRepo{
			getByTenantFunc: func(_ context.Context, _ uuid.UUID) (*domain.TenantLimits, error) {
				return nil, domain.ErrNotFound
			},
		}
		store.tenantLimits = limits
	}
	resolver := entitlement.NewResolver(limits)
	svc := &v1.Services{
		Store:         store,
		Cache:         cache.New(),
		Entitlements:  resolver,
		Gate:          entitlement.NewGate(resolver),
		Publisher:     pub,
		ContentPolicy: cache.Policy{StaleTime: 0}, // refetch every read in tests
		NavPolicy:     cache.Policy{StaleTime: 0, DropOnInvalidate: true},
		FeaturePolicy: cache.Policy{StaleTime: 0},
	}
	return svc, pub
}

// mockPublisher records every published change event.
type mockPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, ev domain.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *mockPublisher) published() []domain.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChangeEvent(nil), m.events...)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants        domain.TenantRepository
	domainBindings domain.DomainBindingRepository
	tenantLimits   domain.TenantLimitsRepository
	products       domain.ProductRepository
	categories     domain.CategoryRepository
	carouselSlides domain.CarouselSlideRepository
	pages          domain.PageRepository
	menuItems      domain.MenuItemRepository
	navbarConfigs  domain.NavbarConfigRepository
	siteProfiles   domain.SiteProfileRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository               { return m.tenants }
func (m *mockDataStore) DomainBindings() domain.DomainBindingRepository { return m.domainBindings }
func (m *mockDataStore) TenantLimits() domain.TenantLimitsRepository    { return m.tenantLimits }
func (m *mockDataStore) Products() domain.ProductRepository             { return m.products }
func (m *mockDataStore) Categories() domain.CategoryRepository          { return m.categories }
func (m *mockDataStore) CarouselSlides() domain.CarouselSlideRepository { return m.carouselSlides }
func (m *mockDataStore) Pages() domain.PageRepository                   { return m.pages }
func (m *mockDataStore) MenuItems() domain.MenuItemRepository           { return m.menuItems }
func (m *mockDataStore) NavbarConfigs() domain.NavbarConfigRepository   { return m.navbarConfigs }
func (m *mockDataStore) SiteProfiles() domain.SiteProfileRepository     { return m.siteProfiles }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySubdomainFunc func(ctx context.Context, subdomain string) (*domain.Tenant, error)
	listPaginatedFunc  func(ctx context.Context, limit, offset int) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return m.getBySubdomainFunc(ctx, subdomain)
}

func (m *mockTenantRepo) ListPaginated(ctx context.Context, limit, offset int) ([]*domain.Tenant, error) {
	return m.listPaginatedFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock TenantLimitsRepository
// ---------------------------------------------------------------------------

type mockTenantLimitsRepo struct {
	getByTenantFunc func(ctx context.Context, tenantID uuid.UUID) (*domain.TenantLimits, error)
	upsertFunc      func(ctx context.Context, limits *domain.TenantLimits) error
}

func (m *mockTenantLimitsRepo) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.TenantLimits, error) {
	return m.getByTenantFunc(ctx, tenantID)
}

func (m *mockTenantLimitsRepo) Upsert(ctx context.Context, limits *domain.TenantLimits) error {
	return m.upsertFunc(ctx, limits)
}

// ---------------------------------------------------------------------------
// Mock ProductRepository
// ---------------------------------------------------------------------------

type mockProductRepo struct {
	getBySlugFunc     func(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Product, error)
	listPublishedFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error)
	listAllFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error)
	countFunc         func(ctx context.Context, tenantID uuid.UUID) (int, error)
	createFunc        func(ctx context.Context, p *domain.Product) error
	updateFunc        func(ctx context.Context, p *domain.Product) error
	deleteFunc        func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Product, error) {
	return m.getBySlugFunc(ctx, tenantID, slug)
}

func (m *mockProductRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return m.listPublishedFunc(ctx, tenantID)
}

func (m *mockProductRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return m.listAllFunc(ctx, tenantID)
}

func (m *mockProductRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return m.countFunc(ctx, tenantID)
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.createFunc(ctx, p)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return m.updateFunc(ctx, p)
}

func (m *mockProductRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock CategoryRepository
// ---------------------------------------------------------------------------

type mockCategoryRepo struct {
	listPublishedFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error)
	listAllFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error)
	countFunc         func(ctx context.Context, tenantID uuid.UUID) (int, error)
	createFunc        func(ctx context.Context, c *domain.Category) error
	updateFunc        func(ctx context.Context, c *domain.Category) error
	deleteFunc        func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockCategoryRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	return m.listPublishedFunc(ctx, tenantID)
}

func (m *mockCategoryRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Category, error) {
	return m.listAllFunc(ctx, tenantID)
}

func (m *mockCategoryRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return m.countFunc(ctx, tenantID)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.createFunc(ctx, c)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock CarouselSlideRepository
// ---------------------------------------------------------------------------

type mockSlideRepo struct {
	listActiveFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error)
	listAllFunc    func(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error)
	countFunc      func(ctx context.Context, tenantID uuid.UUID) (int, error)
	createFunc     func(ctx context.Context, s *domain.CarouselSlide) error
	updateFunc     func(ctx context.Context, s *domain.CarouselSlide) error
	deleteFunc     func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockSlideRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error) {
	return m.listActiveFunc(ctx, tenantID)
}

func (m *mockSlideRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.CarouselSlide, error) {
	return m.listAllFunc(ctx, tenantID)
}

func (m *mockSlideRepo) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return m.countFunc(ctx, tenantID)
}

func (m *mockSlideRepo) Create(ctx context.Context, s *domain.CarouselSlide) error {
	return m.createFunc(ctx, s)
}

func (m *mockSlideRepo) Update(ctx context.Context, s *domain.CarouselSlide) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSlideRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock PageRepository
// ---------------------------------------------------------------------------

type mockPageRepo struct {
	getBySlugFunc     func(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Page, error)
	listPublishedFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error)
	listAllFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error)
	countStaticFunc   func(ctx context.Context, tenantID uuid.UUID) (int, error)
	createFunc        func(ctx context.Context, p *domain.Page) error
	updateFunc        func(ctx context.Context, p *domain.Page) error
	deleteFunc        func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockPageRepo) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*domain.Page, error) {
	return m.getBySlugFunc(ctx, tenantID, slug)
}

func (m *mockPageRepo) ListPublished(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error) {
	return m.listPublishedFunc(ctx, tenantID)
}

func (m *mockPageRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.Page, error) {
	return m.listAllFunc(ctx, tenantID)
}

func (m *mockPageRepo) CountStatic(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return m.countStaticFunc(ctx, tenantID)
}

func (m *mockPageRepo) Create(ctx context.Context, p *domain.Page) error {
	return m.createFunc(ctx, p)
}

func (m *mockPageRepo) Update(ctx context.Context, p *domain.Page) error {
	return m.updateFunc(ctx, p)
}

func (m *mockPageRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock MenuItemRepository
// ---------------------------------------------------------------------------

type mockMenuItemRepo struct {
	listVisibleFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error)
	listAllFunc     func(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error)
	createFunc      func(ctx context.Context, m *domain.MenuItem) error
	updateFunc      func(ctx context.Context, m *domain.MenuItem) error
	deleteFunc      func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockMenuItemRepo) ListVisible(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	return m.listVisibleFunc(ctx, tenantID)
}

func (m *mockMenuItemRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]*domain.MenuItem, error) {
	return m.listAllFunc(ctx, tenantID)
}

func (m *mockMenuItemRepo) Create(ctx context.Context, item *domain.MenuItem) error {
	return m.createFunc(ctx, item)
}

func (m *mockMenuItemRepo) Update(ctx context.Context, item *domain.MenuItem) error {
	return m.updateFunc(ctx, item)
}

func (m *mockMenuItemRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock NavbarConfigRepository / SiteProfileRepository
// ---------------------------------------------------------------------------

type mockNavbarRepo struct {
	getFunc    func(ctx context.Context, tenantID uuid.UUID) (*domain.NavbarConfig, error)
	upsertFunc func(ctx context.Context, c *domain.NavbarConfig) error
}

func (m *mockNavbarRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.NavbarConfig, error) {
	return m.getFunc(ctx, tenantID)
}

func (m *mockNavbarRepo) Upsert(ctx context.Context, c *domain.NavbarConfig) error {
	return m.upsertFunc(ctx, c)
}

type mockProfileRepo struct {
	getFunc    func(ctx context.Context, tenantID uuid.UUID) (*domain.SiteProfile, error)
	upsertFunc func(ctx context.Context, p *domain.SiteProfile) error
}

func (m *mockProfileRepo) Get(ctx context.Context, tenantID uuid.UUID) (*domain.SiteProfile, error) {
	return m.getFunc(ctx, tenantID)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, p *domain.SiteProfile) error {
	return m.upsertFunc(ctx, p)
}
