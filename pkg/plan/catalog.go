package plan

import (
	"errors"
	"fmt"
)

// Catalog is an immutable lookup table from tier to Config. It is built once
// at startup and passed to the entitlement evaluator and HTTP handlers, so
// there is no global mutable plan table to coordinate around.
type Catalog struct {
	configs map[Tier]Config
}

// NewCatalog builds a catalog from per-tier configs. All three known tiers
// must be present; configs are deep-copied so later mutation of the input
// cannot affect the catalog.
func NewCatalog(configs map[Tier]Config) (Catalog, error) {
	for _, tier := range Tiers() {
		cfg, ok := configs[tier]
		if !ok {
			return Catalog{}, errors.Join(ErrInvalidCatalog, fmt.Errorf("missing config for tier %q", tier))
		}
		if cfg.Tier != tier {
			return Catalog{}, errors.Join(ErrInvalidCatalog,
				fmt.Errorf("tier mismatch: map key %q != config tier %q", tier, cfg.Tier))
		}
		for resource, limit := range cfg.Limits {
			if limit < Unlimited {
				return Catalog{}, errors.Join(ErrInvalidCatalog,
					fmt.Errorf("tier %q has invalid limit %d for %q", tier, limit, resource))
			}
		}
	}

	copied := make(map[Tier]Config, len(configs))
	for tier, cfg := range configs {
		copied[tier] = cfg.clone()
	}
	return Catalog{configs: copied}, nil
}

// MustCatalog is NewCatalog that panics on invalid input. Intended for the
// built-in default catalog and tests.
func MustCatalog(configs map[Tier]Config) Catalog {
	c, err := NewCatalog(configs)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the config for a tier. The lookup is total: an unknown tier
// resolves to the free config, so callers gating paid features fail closed.
func (c Catalog) Config(tier Tier) Config {
	if cfg, ok := c.configs[tier]; ok {
		return cfg
	}
	return c.configs[TierFree]
}

// Limit returns the resource limit for a tier, applying the same free-tier
// fallback as Config.
func (c Catalog) Limit(tier Tier, resource Resource) int64 {
	return c.Config(tier).Limit(resource)
}

// HasFeature reports whether a tier enables a feature, applying the same
// free-tier fallback as Config.
func (c Catalog) HasFeature(tier Tier, feature Feature) bool {
	return c.Config(tier).HasFeature(feature)
}

// Default returns the built-in catalog matching the published pricing page:
// Free $0, Pro $49/mo or $348/yr, Enterprise $149/mo or $1068/yr.
func Default() Catalog {
	usd := func(dollars int64) Money { return Money{Amount: dollars * 100, Currency: "USD"} }

	return MustCatalog(map[Tier]Config{
		TierFree: {
			Tier:        TierFree,
			DisplayName: "Free",
			Description: "Get started with basic visibility",
			Pricing: Pricing{
				Monthly:        usd(0),
				AnnualPerMonth: usd(0),
				AnnualTotal:    usd(0),
				AnnualSavings:  usd(0),
			},
			Limits: map[Resource]int64{
				ResourceLocations:   1,
				ResourceJobPostings: 1,
				ResourcePhotos:      0,
			},
			Features:       []Feature{},
			SearchPriority: SearchPriorityStandard,
			Highlights: []string{
				"Basic listing",
				"1 service location",
				"Email contact only",
			},
		},
		TierPro: {
			Tier:        TierPro,
			DisplayName: "Pro",
			Description: "Stand out and connect with more families",
			Pricing: Pricing{
				Monthly:        usd(49),
				AnnualPerMonth: usd(29),
				AnnualTotal:    usd(348),
				AnnualSavings:  usd(240),
			},
			Limits: map[Resource]int64{
				ResourceLocations:   5,
				ResourceJobPostings: 5,
				ResourcePhotos:      10,
			},
			Features: []Feature{
				FeatureContactForm,
				FeaturePhotoGallery,
				FeatureVideoEmbed,
				FeatureVerifiedBadge,
				FeatureAnalytics,
				FeatureFeaturedAddon,
				FeatureGoogleRating,
				FeatureAgeRange,
				FeatureLanguages,
				FeatureDiagnoses,
				FeatureSpecialties,
			},
			SearchPriority: SearchPriorityPriority,
			Highlights: []string{
				"Up to 5 locations",
				"Contact form on listing",
				"Photo gallery (up to 10)",
				"Video embed",
				"Verified badge",
				"Google star rating integration",
				"Analytics dashboard",
				"Priority in search results",
			},
		},
		TierEnterprise: {
			Tier:        TierEnterprise,
			DisplayName: "Enterprise",
			Description: "Maximum visibility for large agencies",
			Pricing: Pricing{
				Monthly:        usd(149),
				AnnualPerMonth: usd(89),
				AnnualTotal:    usd(1068),
				AnnualSavings:  usd(720),
			},
			Limits: map[Resource]int64{
				ResourceLocations:   Unlimited,
				ResourceJobPostings: Unlimited,
				ResourcePhotos:      10,
			},
			Features: []Feature{
				FeatureContactForm,
				FeaturePhotoGallery,
				FeatureVideoEmbed,
				FeatureVerifiedBadge,
				FeatureAnalytics,
				FeatureHomepagePlacement,
				FeatureFeaturedAddon,
				FeatureGoogleRating,
				FeatureAgeRange,
				FeatureLanguages,
				FeatureDiagnoses,
				FeatureSpecialties,
			},
			SearchPriority: SearchPriorityPriority,
			Highlights: []string{
				"Unlimited locations",
				"Everything in Pro",
				"Homepage placement",
				"Dedicated support",
			},
		},
	})
}
