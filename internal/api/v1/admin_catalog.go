package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/entitlement"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
)

// Admin mutations require a resolved tenant (RequireTenant middleware plus a
// matching token claim). Every successful mutation publishes a change event;
// a publish failure is logged and swallowed because push invalidation is a
// freshness optimization, not a correctness requirement.

func requireTenantID(ctx context.Context) (uuid.UUID, error) {
	tid, ok := middleware.TenantIDFromContext(ctx)
	if !ok || tid == uuid.Nil {
		return uuid.Nil, huma.Error403Forbidden("valid tenant required")
	}
	return tid, nil
}

func publishChange(ctx context.Context, svc *Services, table string, op domain.ChangeOp, tenantID uuid.UUID, after map[string]any) {
	ev := domain.ChangeEvent{Table: table, Op: op, TenantID: tenantID, After: after}
	if err := svc.Publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("table", table).Stringer("tenant_id", tenantID).Msg("change publish failed")
	}
}

type CreateProductInput struct {
	Body struct {
		Name         string  `json:"name" minLength:"1" maxLength:"255" doc:"Product name"`
		Slug         string  `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug"`
		Description  string  `json:"description,omitempty" doc:"Product description"`
		PriceCents   int64   `json:"price_cents" minimum:"0" doc:"Price in cents"`
		CategoryID   *string `json:"category_id,omitempty" format:"uuid" doc:"Owning category"`
		ImageURL     string  `json:"image_url,omitempty" doc:"Primary image URL"`
		VideoURL     string  `json:"video_url,omitempty" doc:"Product video URL"`
		IsPublished  bool    `json:"is_published" doc:"Visible on the storefront"`
		DisplayOrder int     `json:"display_order" doc:"Sort position"`
	}
}

type ProductOutput struct {
	Body *domain.Product
}

type ListProductsOutput struct {
	Body []*domain.Product
}

type UpdateProductInput struct {
	ID   string `path:"id" format:"uuid" doc:"Product id"`
	Body struct {
		Name         string  `json:"name" minLength:"1" maxLength:"255"`
		Slug         string  `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$"`
		Description  string  `json:"description,omitempty"`
		PriceCents   int64   `json:"price_cents" minimum:"0"`
		CategoryID   *string `json:"category_id,omitempty" format:"uuid"`
		ImageURL     string  `json:"image_url,omitempty"`
		VideoURL     string  `json:"video_url,omitempty"`
		IsPublished  bool    `json:"is_published"`
		DisplayOrder int     `json:"display_order"`
	}
}

type DeleteByIDInput struct {
	ID string `path:"id" format:"uuid" doc:"Record id"`
}

func RegisterAdminProductRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-products",
		Method:      http.MethodGet,
		Path:        "/admin/products",
		Summary:     "List all products including unpublished",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListProductsOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		products, err := svc.Store.Products().ListAll(ctx, tid)
		if err != nil {
			return nil, mapError("failed to list products", err)
		}
		return &ListProductsOutput{Body: products}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-product",
		Method:      http.MethodPost,
		Path:        "/admin/products",
		Summary:     "Create a product, subject to the plan's product limit",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateProductInput) (*ProductOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		count, err := svc.Store.Products().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count products", err)
		}
		if err := svc.Gate.CheckLimit(ctx, tid, entitlement.ResourceProducts, count); err != nil {
			return nil, mapError("product limit reached", err)
		}

		var categoryID *uuid.UUID
		if input.Body.CategoryID != nil {
			id, err := uuid.Parse(*input.Body.CategoryID)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("invalid category id")
			}
			categoryID = &id
		}

		now := time.Now()
		p := &domain.Product{
			ID:           uuid.New(),
			TenantID:     tid,
			CategoryID:   categoryID,
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			Description:  input.Body.Description,
			PriceCents:   input.Body.PriceCents,
			ImageURL:     input.Body.ImageURL,
			VideoURL:     input.Body.VideoURL,
			IsPublished:  input.Body.IsPublished,
			DisplayOrder: input.Body.DisplayOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := svc.Store.Products().Create(ctx, p); err != nil {
			return nil, mapError("failed to create product", err)
		}

		publishChange(ctx, svc, "products", domain.ChangeInsert, tid, map[string]any{"slug": p.Slug})
		return &ProductOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-product",
		Method:      http.MethodPut,
		Path:        "/admin/products/{id}",
		Summary:     "Update a product",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid product id")
		}

		var categoryID *uuid.UUID
		if input.Body.CategoryID != nil {
			cid, err := uuid.Parse(*input.Body.CategoryID)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("invalid category id")
			}
			categoryID = &cid
		}

		p := &domain.Product{
			ID:           id,
			TenantID:     tid,
			CategoryID:   categoryID,
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			Description:  input.Body.Description,
			PriceCents:   input.Body.PriceCents,
			ImageURL:     input.Body.ImageURL,
			VideoURL:     input.Body.VideoURL,
			IsPublished:  input.Body.IsPublished,
			DisplayOrder: input.Body.DisplayOrder,
		}

		if err := svc.Store.Products().Update(ctx, p); err != nil {
			return nil, mapError("failed to update product", err)
		}

		publishChange(ctx, svc, "products", domain.ChangeUpdate, tid, map[string]any{"slug": p.Slug})
		return &ProductOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-product",
		Method:      http.MethodDelete,
		Path:        "/admin/products/{id}",
		Summary:     "Delete a product",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteByIDInput) (*struct{}, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid product id")
		}

		if err := svc.Store.Products().Delete(ctx, tid, id); err != nil {
			return nil, mapError("failed to delete product", err)
		}

		publishChange(ctx, svc, "products", domain.ChangeDelete, tid, nil)
		return nil, nil
	})
}

type CreateCategoryInput struct {
	Body struct {
		Name         string `json:"name" minLength:"1" maxLength:"255" doc:"Category name"`
		Slug         string `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug"`
		ImageURL     string `json:"image_url,omitempty" doc:"Category image URL"`
		IsPublished  bool   `json:"is_published" doc:"Visible on the storefront"`
		DisplayOrder int    `json:"display_order" doc:"Sort position"`
	}
}

type CategoryOutput struct {
	Body *domain.Category
}

type ListCategoriesOutput struct {
	Body []*domain.Category
}

type UpdateCategoryInput struct {
	ID   string `path:"id" format:"uuid" doc:"Category id"`
	Body struct {
		Name         string `json:"name" minLength:"1" maxLength:"255"`
		Slug         string `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$"`
		ImageURL     string `json:"image_url,omitempty"`
		IsPublished  bool   `json:"is_published"`
		DisplayOrder int    `json:"display_order"`
	}
}

func RegisterAdminCategoryRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-categories",
		Method:      http.MethodGet,
		Path:        "/admin/categories",
		Summary:     "List all categories including unpublished",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		categories, err := svc.Store.Categories().ListAll(ctx, tid)
		if err != nil {
			return nil, mapError("failed to list categories", err)
		}
		return &ListCategoriesOutput{Body: categories}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-category",
		Method:      http.MethodPost,
		Path:        "/admin/categories",
		Summary:     "Create a category, subject to the plan's category limit",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		count, err := svc.Store.Categories().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count categories", err)
		}
		if err := svc.Gate.CheckLimit(ctx, tid, entitlement.ResourceCategories, count); err != nil {
			return nil, mapError("category limit reached", err)
		}

		now := time.Now()
		c := &domain.Category{
			ID:           uuid.New(),
			TenantID:     tid,
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			ImageURL:     input.Body.ImageURL,
			IsPublished:  input.Body.IsPublished,
			DisplayOrder: input.Body.DisplayOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := svc.Store.Categories().Create(ctx, c); err != nil {
			return nil, mapError("failed to create category", err)
		}

		publishChange(ctx, svc, "categories", domain.ChangeInsert, tid, map[string]any{"slug": c.Slug})
		return &CategoryOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-category",
		Method:      http.MethodPut,
		Path:        "/admin/categories/{id}",
		Summary:     "Update a category",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid category id")
		}

		c := &domain.Category{
			ID:           id,
			TenantID:     tid,
			Name:         input.Body.Name,
			Slug:         input.Body.Slug,
			ImageURL:     input.Body.ImageURL,
			IsPublished:  input.Body.IsPublished,
			DisplayOrder: input.Body.DisplayOrder,
		}

		if err := svc.Store.Categories().Update(ctx, c); err != nil {
			return nil, mapError("failed to update category", err)
		}

		publishChange(ctx, svc, "categories", domain.ChangeUpdate, tid, map[string]any{"slug": c.Slug})
		return &CategoryOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-category",
		Method:      http.MethodDelete,
		Path:        "/admin/categories/{id}",
		Summary:     "Delete a category",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteByIDInput) (*struct{}, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid category id")
		}

		if err := svc.Store.Categories().Delete(ctx, tid, id); err != nil {
			return nil, mapError("failed to delete category", err)
		}

		publishChange(ctx, svc, "categories", domain.ChangeDelete, tid, nil)
		return nil, nil
	})
}

type CreateSlideInput struct {
	Body struct {
		ImageURL     string `json:"image_url" minLength:"1" doc:"Slide image URL"`
		Title        string `json:"title,omitempty" maxLength:"255"`
		Subtitle     string `json:"subtitle,omitempty" maxLength:"255"`
		CTALabel     string `json:"cta_label,omitempty" maxLength:"100"`
		CTALink      string `json:"cta_link,omitempty" maxLength:"2048"`
		IsActive     bool   `json:"is_active"`
		DisplayOrder int    `json:"display_order"`
	}
}

type SlideOutput struct {
	Body *domain.CarouselSlide
}

type ListSlidesOutput struct {
	Body []*domain.CarouselSlide
}

type UpdateSlideInput struct {
	ID   string `path:"id" format:"uuid" doc:"Slide id"`
	Body struct {
		ImageURL     string `json:"image_url" minLength:"1"`
		Title        string `json:"title,omitempty" maxLength:"255"`
		Subtitle     string `json:"subtitle,omitempty" maxLength:"255"`
		CTALabel     string `json:"cta_label,omitempty" maxLength:"100"`
		CTALink      string `json:"cta_link,omitempty" maxLength:"2048"`
		IsActive     bool   `json:"is_active"`
		DisplayOrder int    `json:"display_order"`
	}
}

func RegisterAdminSlideRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-slides",
		Method:      http.MethodGet,
		Path:        "/admin/slides",
		Summary:     "List all carousel slides including inactive",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListSlidesOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		slides, err := svc.Store.CarouselSlides().ListAll(ctx, tid)
		if err != nil {
			return nil, mapError("failed to list slides", err)
		}
		return &ListSlidesOutput{Body: slides}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-slide",
		Method:      http.MethodPost,
		Path:        "/admin/slides",
		Summary:     "Create a carousel slide, subject to the plan's slide limit",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateSlideInput) (*SlideOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		count, err := svc.Store.CarouselSlides().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count slides", err)
		}
		if err := svc.Gate.CheckLimit(ctx, tid, entitlement.ResourceCarouselSlides, count); err != nil {
			return nil, mapError("slide limit reached", err)
		}

		now := time.Now()
		s := &domain.CarouselSlide{
			ID:           uuid.New(),
			TenantID:     tid,
			ImageURL:     input.Body.ImageURL,
			Title:        input.Body.Title,
			Subtitle:     input.Body.Subtitle,
			CTALabel:     input.Body.CTALabel,
			CTALink:      input.Body.CTALink,
			IsActive:     input.Body.IsActive,
			DisplayOrder: input.Body.DisplayOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := svc.Store.CarouselSlides().Create(ctx, s); err != nil {
			return nil, mapError("failed to create slide", err)
		}

		publishChange(ctx, svc, "carousel_slides", domain.ChangeInsert, tid, nil)
		return &SlideOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-slide",
		Method:      http.MethodPut,
		Path:        "/admin/slides/{id}",
		Summary:     "Update a carousel slide",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateSlideInput) (*SlideOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid slide id")
		}

		s := &domain.CarouselSlide{
			ID:           id,
			TenantID:     tid,
			ImageURL:     input.Body.ImageURL,
			Title:        input.Body.Title,
			Subtitle:     input.Body.Subtitle,
			CTALabel:     input.Body.CTALabel,
			CTALink:      input.Body.CTALink,
			IsActive:     input.Body.IsActive,
			DisplayOrder: input.Body.DisplayOrder,
		}

		if err := svc.Store.CarouselSlides().Update(ctx, s); err != nil {
			return nil, mapError("failed to update slide", err)
		}

		publishChange(ctx, svc, "carousel_slides", domain.ChangeUpdate, tid, nil)
		return &SlideOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-slide",
		Method:      http.MethodDelete,
		Path:        "/admin/slides/{id}",
		Summary:     "Delete a carousel slide",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteByIDInput) (*struct{}, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid slide id")
		}

		if err := svc.Store.CarouselSlides().Delete(ctx, tid, id); err != nil {
			return nil, mapError("failed to delete slide", err)
		}

		publishChange(ctx, svc, "carousel_slides", domain.ChangeDelete, tid, nil)
		return nil, nil
	})
}
