package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/plan"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
)

// Platform routes serve the operator surface on the platform root domain.
// They require the admin role and address tenants explicitly by id, which
// is the one sanctioned way to act across tenants.

type ListTenantsInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type GetTenantLimitsInput struct {
	TenantID string `path:"tenantID" format:"uuid" doc:"Tenant id"`
}

type TenantLimitsOutput struct {
	Body *domain.TenantLimits
}

type UpsertTenantLimitsInput struct {
	TenantID string `path:"tenantID" format:"uuid" doc:"Tenant id"`
	Body     struct {
		PlanType          string   `json:"plan_type" enum:"basic,silver,gold" doc:"Subscription tier"`
		MaxProducts       *int     `json:"max_products,omitempty" minimum:"0" doc:"Override; omit for tier default"`
		MaxCategories     *int     `json:"max_categories,omitempty" minimum:"0" doc:"Override; omit for tier default"`
		MaxCarouselSlides *int     `json:"max_carousel_slides,omitempty" minimum:"0" doc:"Override; omit for tier default"`
		MaxStaticPages    *int     `json:"max_static_pages,omitempty" minimum:"0" doc:"Override; omit for tier default"`
		MaxImageSizeMB    *float64 `json:"max_image_size_mb,omitempty" minimum:"0" doc:"Override; omit for tier default"`
	}
}

func RegisterPlatformRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "platform-list-tenants",
		Method:      http.MethodGet,
		Path:        "/platform/tenants",
		Summary:     "List provisioned tenants",
		Tags:        []string{"Platform"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		tenants, err := svc.Store.Tenants().ListPaginated(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, mapError("failed to list tenants", err)
		}
		return &ListTenantsOutput{Body: tenants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "platform-get-tenant-limits",
		Method:      http.MethodGet,
		Path:        "/platform/tenants/{tenantID}/limits",
		Summary:     "Fetch a tenant's limit override row",
		Tags:        []string{"Platform"},
	}, func(ctx context.Context, input *GetTenantLimitsInput) (*TenantLimitsOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		tid, err := uuid.Parse(input.TenantID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid tenant id")
		}

		limits, err := svc.Store.TenantLimits().GetByTenant(ctx, tid)
		if err != nil {
			return nil, mapError("failed to fetch tenant limits", err)
		}
		return &TenantLimitsOutput{Body: limits}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "platform-upsert-tenant-limits",
		Method:      http.MethodPut,
		Path:        "/platform/tenants/{tenantID}/limits",
		Summary:     "Set a tenant's plan tier and limit overrides",
		Tags:        []string{"Platform"},
	}, func(ctx context.Context, input *UpsertTenantLimitsInput) (*TenantLimitsOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		tid, err := uuid.Parse(input.TenantID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid tenant id")
		}

		// The tenant must exist; overrides for unknown tenants would be
		// unreachable rows.
		if _, err := svc.Store.Tenants().GetByID(ctx, tid); err != nil {
			return nil, mapError("tenant not found", err)
		}

		limits := &domain.TenantLimits{
			TenantID:          tid,
			PlanType:          string(plan.Normalize(input.Body.PlanType)),
			MaxProducts:       input.Body.MaxProducts,
			MaxCategories:     input.Body.MaxCategories,
			MaxCarouselSlides: input.Body.MaxCarouselSlides,
			MaxStaticPages:    input.Body.MaxStaticPages,
			MaxImageSizeMB:    input.Body.MaxImageSizeMB,
		}

		if err := svc.Store.TenantLimits().Upsert(ctx, limits); err != nil {
			return nil, mapError("failed to save tenant limits", err)
		}

		publishChange(ctx, svc, "tenant_limits", domain.ChangeUpdate, tid, map[string]any{"plan_type": limits.PlanType})
		return &TenantLimitsOutput{Body: limits}, nil
	})
}

func requireAdmin(ctx context.Context) error {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || role != "admin" {
		return huma.Error403Forbidden("admin role required")
	}
	return nil
}
