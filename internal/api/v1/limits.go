package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/entitlement"
	"github.com/vitrinhq/vitrin/internal/plan"
)

type SnapshotOutput struct {
	Body struct {
		PlanType plan.Type     `json:"plan_type"`
		Limits   plan.Limits   `json:"limits"`
		Features plan.Features `json:"features"`
	}
}

type UsageOutput struct {
	Body struct {
		PlanType plan.Type `json:"plan_type"`
		Usage    []Usage   `json:"usage"`
	}
}

// Usage pairs one limited resource with its consumption.
type Usage struct {
	Resource string `json:"resource"`
	Used     int    `json:"used"`
	Limit    int    `json:"limit"`
}

// RegisterLimitRoutes exposes the tenant's effective configuration: the plan
// registry's tier defaults layered under the tenant's overrides. Cached with
// the feature policy (slow-moving data, long stale window).
func RegisterLimitRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-plan-snapshot",
		Method:      http.MethodGet,
		Path:        "/admin/plan",
		Summary:     "Effective plan limits and feature flags",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		snap, err := cachedQuery(ctx, svc, cache.QueryPlanFeatures, tid, svc.FeaturePolicy,
			func(ctx context.Context) (entitlement.Snapshot, error) {
				return svc.Entitlements.Resolve(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to resolve plan", err)
		}

		out := &SnapshotOutput{}
		out.Body.PlanType = snap.PlanType
		out.Body.Limits = snap.Limits
		out.Body.Features = snap.Features
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-plan-usage",
		Method:      http.MethodGet,
		Path:        "/admin/plan/usage",
		Summary:     "Current consumption against every effective limit",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*UsageOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		snap, err := cachedQuery(ctx, svc, cache.QueryTenantLimits, tid, svc.FeaturePolicy,
			func(ctx context.Context) (entitlement.Snapshot, error) {
				return svc.Entitlements.Resolve(ctx, tid)
			})
		if err != nil {
			return nil, mapError("failed to resolve plan", err)
		}

		products, err := svc.Store.Products().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count products", err)
		}
		categories, err := svc.Store.Categories().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count categories", err)
		}
		slides, err := svc.Store.CarouselSlides().Count(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count slides", err)
		}
		pages, err := svc.Store.Pages().CountStatic(ctx, tid)
		if err != nil {
			return nil, mapError("failed to count pages", err)
		}

		out := &UsageOutput{}
		out.Body.PlanType = snap.PlanType
		out.Body.Usage = []Usage{
			{Resource: string(entitlement.ResourceProducts), Used: products, Limit: snap.Limits.MaxProducts},
			{Resource: string(entitlement.ResourceCategories), Used: categories, Limit: snap.Limits.MaxCategories},
			{Resource: string(entitlement.ResourceCarouselSlides), Used: slides, Limit: snap.Limits.MaxCarouselSlides},
			{Resource: string(entitlement.ResourceStaticPages), Used: pages, Limit: snap.Limits.MaxStaticPages},
		}
		return out, nil
	})
}
