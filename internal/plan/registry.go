// Package plan is the compiled-in registry of subscription tiers. Tiers are
// totally ordered by capability; the registry is the only source of truth
// for feature flags, which tenant overrides can never change.
package plan

// Type is a subscription tier. The set is closed; strings read from the
// store that fall outside it are normalized to Basic.
type Type string

const (
	Basic  Type = "basic"
	Silver Type = "silver"
	Gold   Type = "gold"
)

type AnalyticsLevel string

const (
	AnalyticsNone     AnalyticsLevel = "none"
	AnalyticsStandard AnalyticsLevel = "standard"
	AnalyticsAdvanced AnalyticsLevel = "advanced"
)

// Limits are the numeric caps a tier grants by default. A tenant's override
// row may replace any of them per field.
type Limits struct {
	MaxProducts       int
	MaxCategories     int
	MaxCarouselSlides int
	MaxStaticPages    int
	MaxImageSizeMB    float64
}

// Features are the flags a tier unlocks. Unlike Limits these are fixed per
// tier and never overridable per tenant.
type Features struct {
	HasAnalytics              bool
	AnalyticsLevel            AnalyticsLevel
	CanAccessThemes           bool
	CanAccessAdvancedFeatures bool
}

type Definition struct {
	Type          Type
	Label         string
	Description   string
	DefaultLimits Limits
	Features      Features
}

// Order lists tiers from least to most capable.
var Order = []Type{Basic, Silver, Gold}

var registry = map[Type]Definition{
	Basic: {
		Type:        Basic,
		Label:       "Basic",
		Description: "Starter plan with core storefront features.",
		DefaultLimits: Limits{
			MaxProducts:       10,
			MaxCategories:     5,
			MaxCarouselSlides: 3,
			MaxStaticPages:    5,
			MaxImageSizeMB:    2,
		},
		Features: Features{
			HasAnalytics:              false,
			AnalyticsLevel:            AnalyticsNone,
			CanAccessThemes:           false,
			CanAccessAdvancedFeatures: false,
		},
	},
	Silver: {
		Type:        Silver,
		Label:       "Silver",
		Description: "Growing shops with more catalog capacity and standard analytics.",
		DefaultLimits: Limits{
			MaxProducts:       50,
			MaxCategories:     15,
			MaxCarouselSlides: 10,
			MaxStaticPages:    20,
			MaxImageSizeMB:    5,
		},
		Features: Features{
			HasAnalytics:              true,
			AnalyticsLevel:            AnalyticsStandard,
			CanAccessThemes:           false,
			CanAccessAdvancedFeatures: true,
		},
	},
	Gold: {
		Type:        Gold,
		Label:       "Gold",
		Description: "High-volume shops with advanced customization and analytics.",
		DefaultLimits: Limits{
			MaxProducts:       200,
			MaxCategories:     50,
			MaxCarouselSlides: 30,
			MaxStaticPages:    100,
			MaxImageSizeMB:    10,
		},
		Features: Features{
			HasAnalytics:              true,
			AnalyticsLevel:            AnalyticsAdvanced,
			CanAccessThemes:           true,
			CanAccessAdvancedFeatures: true,
		},
	},
}

// Normalize maps an arbitrary stored plan string onto the closed tier set.
// Unknown or empty values become Basic; this never fails.
func Normalize(s string) Type {
	switch Type(s) {
	case Silver, Gold:
		return Type(s)
	default:
		return Basic
	}
}

// Get returns the definition for a tier, normalizing unknown values first.
func Get(t Type) Definition {
	return registry[Normalize(string(t))]
}

// AtLeast reports whether current grants everything required does.
func AtLeast(current, required Type) bool {
	return index(Normalize(string(current))) >= index(Normalize(string(required)))
}

func index(t Type) int {
	for i, o := range Order {
		if o == t {
			return i
		}
	}
	return 0
}
