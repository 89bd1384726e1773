package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
	"github.com/vitrinhq/vitrin/internal/tenant"
)

// Storefront reads are public. When the hostname resolves to no tenant they
// return the empty default experience, never an error: visitors on an
// unbound domain still get a storefront.

type HomeOutput struct {
	Body struct {
		TenantName string                  `json:"tenant_name"`
		Sections   string                  `json:"sections"`
		Slides     []*domain.CarouselSlide `json:"slides"`
		Categories []*domain.Category      `json:"categories"`
	}
}

type StorefrontPagesOutput struct {
	Body []*domain.Page
}

type StorefrontPageInput struct {
	Slug string `path:"slug" maxLength:"255" doc:"Page slug"`
}

type StorefrontPageOutput struct {
	Body *domain.Page
}

type StorefrontProductsOutput struct {
	Body []*domain.Product
}

type StorefrontProductInput struct {
	Slug string `path:"slug" maxLength:"255" doc:"Product slug"`
}

type StorefrontProductOutput struct {
	Body *domain.Product
}

type StorefrontCategoriesOutput struct {
	Body []*domain.Category
}

type NavigationOutput struct {
	Body struct {
		Menu   []*domain.MenuItem   `json:"menu"`
		Navbar *domain.NavbarConfig `json:"navbar,omitempty"`
	}
}

type SiteConfigOutput struct {
	Body *domain.SiteProfile
}

func RegisterStorefrontRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "storefront-home",
		Method:      http.MethodGet,
		Path:        "/storefront/home",
		Summary:     "Composed home page: sections, carousel slides, published categories",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*HomeOutput, error) {
		out := &HomeOutput{}
		out.Body.Slides = []*domain.CarouselSlide{}
		out.Body.Categories = []*domain.Category{}

		res, ok := middleware.ResolutionFromContext(ctx)
		if !ok || res.Kind != tenant.KindTenant {
			return out, nil
		}
		tid := res.TenantID()
		out.Body.TenantName = res.Tenant.Name

		home, err := cachedQuery(ctx, svc, cache.QueryHomeSections, tid, svc.ContentPolicy,
			func(ctx context.Context) (*domain.Page, error) {
				return svc.Store.Pages().GetBySlug(ctx, tid, domain.HomeSlug)
			})
		if err == nil && home != nil {
			out.Body.Sections = home.Content
		}

		slides, err := cachedQuery(ctx, svc, cache.QueryCarouselSlides, tid, svc.ContentPolicy,
			func(ctx context.Context) ([]*domain.CarouselSlide, error) {
				return svc.Store.CarouselSlides().ListActive(ctx, tid)
			})
		if err != nil {
			log.Warn().Err(err).Stringer("tenant_id", tid).Msg("slides fetch failed, serving without carousel")
		} else {
			out.Body.Slides = slides
		}

		categories, err := cachedQuery(ctx, svc, cache.QueryPublishedCategories, tid, svc.ContentPolicy,
			func(ctx context.Context) ([]*domain.Category, error) {
				return svc.Store.Categories().ListPublished(ctx, tid)
			})
		if err != nil {
			log.Warn().Err(err).Stringer("tenant_id", tid).Msg("categories fetch failed, serving without categories")
		} else {
			out.Body.Categories = categories
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-list-pages",
		Method:      http.MethodGet,
		Path:        "/storefront/pages",
		Summary:     "List published static pages",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*StorefrontPagesOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return &StorefrontPagesOutput{Body: []*domain.Page{}}, nil
		}

		pages, err := cachedQuery(ctx, svc, cache.QueryPages, tid, svc.ContentPolicy,
			func(ctx context.Context) ([]*domain.Page, error) {
				return svc.Store.Pages().ListPublished(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to list pages", err)
		}

		return &StorefrontPagesOutput{Body: pages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-get-page",
		Method:      http.MethodGet,
		Path:        "/storefront/pages/{slug}",
		Summary:     "Fetch one published page by slug",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, input *StorefrontPageInput) (*StorefrontPageOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return nil, huma.Error404NotFound("page not found")
		}

		page, err := cachedQueryKeyed(ctx, svc, cache.QueryPages, tid, []string{input.Slug}, svc.ContentPolicy,
			func(ctx context.Context) (*domain.Page, error) {
				return svc.Store.Pages().GetBySlug(ctx, tid, input.Slug)
			})
		if err != nil {
			return nil, mapError("failed to fetch page", err)
		}
		if !page.IsPublished {
			return nil, huma.Error404NotFound("page not found")
		}

		return &StorefrontPageOutput{Body: page}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-list-products",
		Method:      http.MethodGet,
		Path:        "/storefront/products",
		Summary:     "List published products",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*StorefrontProductsOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return &StorefrontProductsOutput{Body: []*domain.Product{}}, nil
		}

		products, err := cachedQuery(ctx, svc, cache.QueryPublishedProducts, tid, svc.ContentPolicy,
			func(ctx context.Context) ([]*domain.Product, error) {
				return svc.Store.Products().ListPublished(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to list products", err)
		}

		return &StorefrontProductsOutput{Body: products}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-get-product",
		Method:      http.MethodGet,
		Path:        "/storefront/products/{slug}",
		Summary:     "Fetch one published product by slug",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, input *StorefrontProductInput) (*StorefrontProductOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return nil, huma.Error404NotFound("product not found")
		}

		product, err := cachedQueryKeyed(ctx, svc, cache.QueryProductDetail, tid, []string{input.Slug}, svc.ContentPolicy,
			func(ctx context.Context) (*domain.Product, error) {
				return svc.Store.Products().GetBySlug(ctx, tid, input.Slug)
			})
		if err != nil {
			return nil, mapError("failed to fetch product", err)
		}
		if !product.IsPublished {
			return nil, huma.Error404NotFound("product not found")
		}

		return &StorefrontProductOutput{Body: product}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-list-categories",
		Method:      http.MethodGet,
		Path:        "/storefront/categories",
		Summary:     "List published categories",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*StorefrontCategoriesOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return &StorefrontCategoriesOutput{Body: []*domain.Category{}}, nil
		}

		categories, err := cachedQuery(ctx, svc, cache.QueryPublishedCategories, tid, svc.ContentPolicy,
			func(ctx context.Context) ([]*domain.Category, error) {
				return svc.Store.Categories().ListPublished(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to list categories", err)
		}

		return &StorefrontCategoriesOutput{Body: categories}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-navigation",
		Method:      http.MethodGet,
		Path:        "/storefront/navigation",
		Summary:     "Menu items and navbar configuration",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*NavigationOutput, error) {
		out := &NavigationOutput{}
		out.Body.Menu = []*domain.MenuItem{}

		tid, ok := resolvedTenant(ctx)
		if !ok {
			return out, nil
		}

		menu, err := cachedQuery(ctx, svc, cache.QueryMenuItems, tid, svc.NavPolicy,
			func(ctx context.Context) ([]*domain.MenuItem, error) {
				return svc.Store.MenuItems().ListVisible(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to fetch menu", err)
		}
		out.Body.Menu = menu

		navbar, err := cachedQuery(ctx, svc, cache.QueryNavbarConfig, tid, svc.NavPolicy,
			func(ctx context.Context) (*domain.NavbarConfig, error) {
				return svc.Store.NavbarConfigs().Get(ctx, tid)
			})
		if err == nil {
			out.Body.Navbar = navbar
		}

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storefront-site-config",
		Method:      http.MethodGet,
		Path:        "/storefront/site",
		Summary:     "Tenant branding and theme",
		Tags:        []string{"Storefront"},
	}, func(ctx context.Context, _ *struct{}) (*SiteConfigOutput, error) {
		tid, ok := resolvedTenant(ctx)
		if !ok {
			return &SiteConfigOutput{Body: &domain.SiteProfile{}}, nil
		}

		profile, err := cachedQuery(ctx, svc, cache.QuerySiteConfig, tid, svc.ContentPolicy,
			func(ctx context.Context) (*domain.SiteProfile, error) {
				return svc.Store.SiteProfiles().Get(ctx, tid)
			})
		if err != nil {
			// Branding is optional; an unbound profile serves defaults.
			return &SiteConfigOutput{Body: &domain.SiteProfile{TenantID: tid}}, nil
		}

		return &SiteConfigOutput{Body: profile}, nil
	})
}

func resolvedTenant(ctx context.Context) (uuid.UUID, bool) {
	res, ok := middleware.ResolutionFromContext(ctx)
	if !ok || res.Kind != tenant.KindTenant {
		return uuid.Nil, false
	}
	return res.TenantID(), true
}

// cachedQuery runs one tenant-scoped logical query through the cache.
func cachedQuery[T any](ctx context.Context, svc *Services, logical string, tid uuid.UUID, policy cache.Policy, fetch func(ctx context.Context) (T, error)) (T, error) {
	return cachedQueryKeyed(ctx, svc, logical, tid, nil, policy, fetch)
}

func cachedQueryKeyed[T any](ctx context.Context, svc *Services, logical string, tid uuid.UUID, discriminators []string, policy cache.Policy, fetch func(ctx context.Context) (T, error)) (T, error) {
	key, err := cache.NewKey(logical, tid, discriminators...)
	if err != nil {
		var zero T
		return zero, err
	}
	return cache.Fetch(ctx, svc.Cache, key, policy, fetch)
}
