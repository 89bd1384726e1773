package cache

// Logical query names shared by the read handlers and the realtime
// invalidator. The name plus tenant id is the invalidation prefix.
const (
	QueryHomeSections        = "home-page-sections"
	QueryCarouselSlides      = "carousel-slides"
	QueryPublishedCategories = "published-categories"
	QueryPublishedProducts   = "published-products"
	QueryProductDetail       = "product-detail"
	QueryPages               = "pages"
	QueryMenuItems           = "menu-items"
	QueryNavbarConfig        = "navbar-config"
	QueryTenantLimits        = "tenant-limits"
	QueryPlanFeatures        = "tenant-plan-features"
	QuerySiteConfig          = "tenant-site-config"
	QueryProfileTheme        = "profile-theme"
	QueryAdminUsers          = "admin-users"
)
