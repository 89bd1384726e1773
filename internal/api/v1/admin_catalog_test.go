package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/vitrinhq/vitrin/internal/api/v1"
	"github.com/vitrinhq/vitrin/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /admin/products
// ---------------------------------------------------------------------------

func TestAdminCreateProduct(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_publishes_change", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		var created *domain.Product
		store := &mockDataStore{
			products: &mockProductRepo{
				countFunc: func(_ context.Context, _ uuid.UUID) (int, error) { return 3, nil },
				createFunc: func(_ context.Context, p *domain.Product) error {
					created = p
					return nil
				},
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/products", map[string]any{
			"name":          "Trail Boot",
			"slug":          "trail-boot",
			"price_cents":   12900,
			"is_published":  true,
			"display_order": 1,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, shop.ID, created.TenantID)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, "products", events[0].Table)
		assert.Equal(t, domain.ChangeInsert, events[0].Op)
		assert.Equal(t, shop.ID, events[0].TenantID)
		assert.Equal(t, "trail-boot", events[0].After["slug"])
	})

	t.Run("limit_reached_403", func(t *testing.T) {
		t.Parallel()

		// Defaults to the basic tier: 10 products. The tenant already
		// has 10, so the gate refuses the eleventh.
		_, api := humatest.New(t)
		shop := testShop()
		createCalled := false
		store := &mockDataStore{
			products: &mockProductRepo{
				countFunc: func(_ context.Context, _ uuid.UUID) (int, error) { return 10, nil },
				createFunc: func(_ context.Context, _ *domain.Product) error {
					createCalled = true
					return nil
				},
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/products", map[string]any{
			"name":        "One Too Many",
			"slug":        "one-too-many",
			"price_cents": 100,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.False(t, createCalled, "create must not run past the gate")
		assert.Empty(t, pub.published())
	})

	t.Run("override_raises_the_ceiling", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		maxProducts := 50
		store := &mockDataStore{
			tenantLimits: &mockTenantLimitsRepo{
				getByTenantFunc: func(_ context.Context, _ uuid.UUID) (*domain.TenantLimits, error) {
					return &domain.TenantLimits{PlanType: "basic", MaxProducts: &maxProducts}, nil
				},
			},
			products: &mockProductRepo{
				countFunc:  func(_ context.Context, _ uuid.UUID) (int, error) { return 10, nil },
				createFunc: func(_ context.Context, _ *domain.Product) error { return nil },
			},
		}
		svc, _ := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/products", map[string]any{
			"name":        "Eleventh",
			"slug":        "eleventh",
			"price_cents": 100,
		})

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("no_tenant_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc, _ := newServices(&mockDataStore{})
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PostCtx(context.Background(), "/admin/products", map[string]any{
			"name":        "Orphan",
			"slug":        "orphan",
			"price_cents": 100,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("invalid_slug_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc, _ := newServices(&mockDataStore{})
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(testShop().ID), "/admin/products", map[string]any{
			"name":        "Bad Slug",
			"slug":        "Bad Slug!",
			"price_cents": 100,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT / DELETE /admin/products/{id}
// ---------------------------------------------------------------------------

func TestAdminUpdateProduct(t *testing.T) {
	t.Parallel()

	t.Run("update_publishes_change", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		id := uuid.New()
		store := &mockDataStore{
			products: &mockProductRepo{
				updateFunc: func(_ context.Context, p *domain.Product) error {
					assert.Equal(t, id, p.ID)
					assert.Equal(t, shop.ID, p.TenantID)
					return nil
				},
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PutCtx(tenantCtx(shop.ID), "/admin/products/"+id.String(), map[string]any{
			"name":        "Trail Boot v2",
			"slug":        "trail-boot",
			"price_cents": 13900,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, domain.ChangeUpdate, events[0].Op)
	})

	t.Run("missing_product_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			products: &mockProductRepo{
				updateFunc: func(_ context.Context, _ *domain.Product) error {
					return domain.ErrNotFound
				},
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.PutCtx(tenantCtx(testShop().ID), "/admin/products/"+uuid.NewString(), map[string]any{
			"name":        "Ghost",
			"slug":        "ghost",
			"price_cents": 100,
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Empty(t, pub.published())
	})
}

func TestAdminDeleteProduct(t *testing.T) {
	t.Parallel()

	t.Run("delete_publishes_change", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		id := uuid.New()
		store := &mockDataStore{
			products: &mockProductRepo{
				deleteFunc: func(_ context.Context, tid, got uuid.UUID) error {
					assert.Equal(t, shop.ID, tid)
					assert.Equal(t, id, got)
					return nil
				},
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminProductRoutes(api, svc)

		resp := api.DeleteCtx(tenantCtx(shop.ID), "/admin/products/"+id.String())

		require.Equal(t, http.StatusNoContent, resp.Code)

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, "products", events[0].Table)
		assert.Equal(t, domain.ChangeDelete, events[0].Op)
	})
}

// ---------------------------------------------------------------------------
// /admin/categories
// ---------------------------------------------------------------------------

func TestAdminCategories(t *testing.T) {
	t.Parallel()

	t.Run("list_includes_unpublished", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		store := &mockDataStore{
			categories: &mockCategoryRepo{
				listAllFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.Category, error) {
					return []*domain.Category{
						{Name: "Boots", IsPublished: true},
						{Name: "Drafts", IsPublished: false},
					}, nil
				},
			},
		}
		svc, _ := newServices(store)
		v1.RegisterAdminCategoryRoutes(api, svc)

		resp := api.GetCtx(tenantCtx(shop.ID), "/admin/categories")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Category
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 2)
	})

	t.Run("create_gated_by_category_limit", func(t *testing.T) {
		t.Parallel()

		// Basic tier allows 5 categories.
		_, api := humatest.New(t)
		shop := testShop()
		store := &mockDataStore{
			categories: &mockCategoryRepo{
				countFunc: func(_ context.Context, _ uuid.UUID) (int, error) { return 5, nil },
			},
		}
		svc, _ := newServices(store)
		v1.RegisterAdminCategoryRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/categories", map[string]any{
			"name": "Sixth",
			"slug": "sixth",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// /admin/slides
// ---------------------------------------------------------------------------

func TestAdminSlides(t *testing.T) {
	t.Parallel()

	t.Run("create_slide", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		shop := testShop()
		store := &mockDataStore{
			carouselSlides: &mockSlideRepo{
				countFunc:  func(_ context.Context, _ uuid.UUID) (int, error) { return 0, nil },
				createFunc: func(_ context.Context, _ *domain.CarouselSlide) error { return nil },
			},
		}
		svc, pub := newServices(store)
		v1.RegisterAdminSlideRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/slides", map[string]any{
			"image_url": "https://cdn.example.com/hero.jpg",
			"title":     "Summer Sale",
			"is_active": true,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, "carousel_slides", events[0].Table)
		assert.Equal(t, domain.ChangeInsert, events[0].Op)
	})

	t.Run("slide_limit_reached", func(t *testing.T) {
		t.Parallel()

		// Basic tier allows 3 slides.
		_, api := humatest.New(t)
		shop := testShop()
		store := &mockDataStore{
			carouselSlides: &mockSlideRepo{
				countFunc: func(_ context.Context, _ uuid.UUID) (int, error) { return 3, nil },
			},
		}
		svc, _ := newServices(store)
		v1.RegisterAdminSlideRoutes(api, svc)

		resp := api.PostCtx(tenantCtx(shop.ID), "/admin/slides", map[string]any{
			"image_url": "https://cdn.example.com/fourth.jpg",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
