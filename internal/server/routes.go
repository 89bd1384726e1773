package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/vitrinhq/vitrin/internal/api/v1"
	"github.com/vitrinhq/vitrin/internal/api/ws"
)

func registerStorefrontRoutes(api huma.API, svc *v1.Services) {
	v1.RegisterStorefrontRoutes(api, svc)
}

func registerAdminRoutes(api huma.API, svc *v1.Services) {
	v1.RegisterAdminProductRoutes(api, svc)
	v1.RegisterAdminCategoryRoutes(api, svc)
	v1.RegisterAdminSlideRoutes(api, svc)
	v1.RegisterAdminPageRoutes(api, svc)
	v1.RegisterAdminNavigationRoutes(api, svc)
	v1.RegisterLimitRoutes(api, svc)
	v1.RegisterPlatformRoutes(api, svc)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/storefront", hub.ServeStorefront)
}
