package plan

import "slices"

// Resource represents a countable tenant resource subject to a tier limit.
type Resource string

const (
	ResourceLocations   Resource = "locations"
	ResourceJobPostings Resource = "job_postings"
	ResourcePhotos      Resource = "photos"
)

const (
	// Unlimited indicates no limit for a resource (-1 chosen for SQL compatibility).
	Unlimited int64 = -1
)

// Feature represents a tier-gated capability of a listing or dashboard.
type Feature string

const (
	FeatureContactForm       Feature = "contact_form"
	FeaturePhotoGallery      Feature = "photo_gallery"
	FeatureVideoEmbed        Feature = "video_embed"
	FeatureVerifiedBadge     Feature = "verified_badge"
	FeatureAnalytics         Feature = "analytics"
	FeatureHomepagePlacement Feature = "homepage_placement"
	FeatureFeaturedAddon     Feature = "featured_addon"
	FeatureGoogleRating      Feature = "google_rating"
	FeatureAgeRange          Feature = "age_range"
	FeatureLanguages         Feature = "languages"
	FeatureDiagnoses         Feature = "diagnoses"
	FeatureSpecialties       Feature = "specialties"
)

// SearchPriority controls ranking of a listing in directory search results.
type SearchPriority string

const (
	SearchPriorityStandard SearchPriority = "standard"
	SearchPriorityPriority SearchPriority = "priority"
)

// Money represents a monetary amount in the smallest currency unit.
// $49.00 USD is Money{Amount: 4900, Currency: "USD"}.
type Money struct {
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// Pricing holds the monthly and annual price points for a tier.
// Annual plans are billed once per year; AnnualPerMonth is the per-month
// equivalent shown in pricing tables.
type Pricing struct {
	Monthly        Money `yaml:"monthly"`
	AnnualPerMonth Money `yaml:"annual_per_month"`
	AnnualTotal    Money `yaml:"annual_total"`
	AnnualSavings  Money `yaml:"annual_savings"`
}

// Config describes one tier: its display copy, pricing, resource limits and
// feature flags. Configs are immutable at runtime; changing a tier requires a
// deploy (or a new catalog file).
type Config struct {
	Tier           Tier               `yaml:"tier"`
	DisplayName    string             `yaml:"display_name"`
	Description    string             `yaml:"description"`
	Pricing        Pricing            `yaml:"pricing"`
	Limits         map[Resource]int64 `yaml:"limits"`
	Features       []Feature          `yaml:"features"`
	SearchPriority SearchPriority     `yaml:"search_priority"`
	Highlights     []string           `yaml:"highlights"`
}

// HasFeature reports whether the config enables the given feature.
func (c Config) HasFeature(f Feature) bool {
	return slices.Contains(c.Features, f)
}

// Limit returns the limit for a resource, or 0 if the resource is not
// configured for this tier. Zero means the resource cannot be created at all,
// which is the restrictive default.
func (c Config) Limit(r Resource) int64 {
	limit, ok := c.Limits[r]
	if !ok {
		return 0
	}
	return limit
}

func (c Config) clone() Config {
	clone := c
	clone.Limits = make(map[Resource]int64, len(c.Limits))
	for r, l := range c.Limits {
		clone.Limits[r] = l
	}
	clone.Features = slices.Clone(c.Features)
	clone.Highlights = slices.Clone(c.Highlights)
	return clone
}
