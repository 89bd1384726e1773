package realtime

import (
	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/domain"
)

// tableQueries maps a changed table to the logical queries it invalidates.
// The pages table is routed conditionally in routeEvent instead, so an edit
// to an ordinary static page never forces a home-page recompute.
var tableQueries = map[string][]string{
	"carousel_slides": {cache.QueryCarouselSlides},
	"menu_items":      {cache.QueryMenuItems},
	"navbar_config":   {cache.QueryNavbarConfig},
	"categories":      {cache.QueryPublishedCategories},
	"products":        {cache.QueryPublishedProducts, cache.QueryProductDetail},
	"tenant_limits":   {cache.QueryTenantLimits, cache.QueryPlanFeatures},
	"profiles":        {cache.QuerySiteConfig, cache.QueryProfileTheme, cache.QueryAdminUsers},
}

// homeQueries is the composed home-page key set, invalidated together when
// the home page row changes.
var homeQueries = []string{
	cache.QueryHomeSections,
	cache.QueryCarouselSlides,
	cache.QueryPublishedCategories,
}

func routeEvent(ev domain.ChangeEvent) []string {
	if ev.Table == "pages" {
		if ev.Field("slug") == domain.HomeSlug {
			return homeQueries
		}
		return []string{cache.QueryPages}
	}
	return tableQueries[ev.Table]
}
