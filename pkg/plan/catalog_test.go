package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/providerdir/providerdir/pkg/plan"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("MissingTier", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog(map[plan.Tier]plan.Config{
			plan.TierFree: {Tier: plan.TierFree},
			plan.TierPro:  {Tier: plan.TierPro},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("TierMismatch", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog(map[plan.Tier]plan.Config{
			plan.TierFree:       {Tier: plan.TierFree},
			plan.TierPro:        {Tier: plan.TierEnterprise},
			plan.TierEnterprise: {Tier: plan.TierEnterprise},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		t.Parallel()
		_, err := plan.NewCatalog(map[plan.Tier]plan.Config{
			plan.TierFree: {
				Tier:   plan.TierFree,
				Limits: map[plan.Resource]int64{plan.ResourceLocations: -2},
			},
			plan.TierPro:        {Tier: plan.TierPro},
			plan.TierEnterprise: {Tier: plan.TierEnterprise},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, plan.ErrInvalidCatalog)
	})

	t.Run("InputMutationDoesNotLeak", func(t *testing.T) {
		t.Parallel()
		configs := map[plan.Tier]plan.Config{
			plan.TierFree: {
				Tier:   plan.TierFree,
				Limits: map[plan.Resource]int64{plan.ResourceLocations: 1},
			},
			plan.TierPro:        {Tier: plan.TierPro},
			plan.TierEnterprise: {Tier: plan.TierEnterprise},
		}
		catalog, err := plan.NewCatalog(configs)
		require.NoError(t, err)

		configs[plan.TierFree].Limits[plan.ResourceLocations] = 99
		assert.Equal(t, int64(1), catalog.Limit(plan.TierFree, plan.ResourceLocations))
	})
}

func TestCatalogLookupIsTotal(t *testing.T) {
	t.Parallel()
	catalog := plan.Default()

	t.Run("UnknownTierFallsBackToFree", func(t *testing.T) {
		t.Parallel()
		cfg := catalog.Config(plan.Tier("platinum"))
		assert.Equal(t, plan.TierFree, cfg.Tier)
		assert.Equal(t, int64(1), catalog.Limit(plan.Tier("platinum"), plan.ResourceLocations))
		assert.False(t, catalog.HasFeature(plan.Tier("platinum"), plan.FeatureAnalytics))
	})

	t.Run("UnconfiguredResourceIsZero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(0), catalog.Limit(plan.TierPro, plan.Resource("widgets")))
	})
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	catalog := plan.Default()

	t.Run("Limits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int64(1), catalog.Limit(plan.TierFree, plan.ResourceLocations))
		assert.Equal(t, int64(5), catalog.Limit(plan.TierPro, plan.ResourceLocations))
		assert.Equal(t, plan.Unlimited, catalog.Limit(plan.TierEnterprise, plan.ResourceLocations))

		assert.Equal(t, int64(1), catalog.Limit(plan.TierFree, plan.ResourceJobPostings))
		assert.Equal(t, int64(5), catalog.Limit(plan.TierPro, plan.ResourceJobPostings))
		assert.Equal(t, plan.Unlimited, catalog.Limit(plan.TierEnterprise, plan.ResourceJobPostings))
	})

	t.Run("Features", func(t *testing.T) {
		t.Parallel()
		assert.False(t, catalog.HasFeature(plan.TierFree, plan.FeatureContactForm))
		assert.True(t, catalog.HasFeature(plan.TierPro, plan.FeatureContactForm))
		assert.True(t, catalog.HasFeature(plan.TierPro, plan.FeatureFeaturedAddon))
		assert.False(t, catalog.HasFeature(plan.TierPro, plan.FeatureHomepagePlacement))
		assert.True(t, catalog.HasFeature(plan.TierEnterprise, plan.FeatureHomepagePlacement))
	})

	t.Run("Pricing", func(t *testing.T) {
		t.Parallel()
		pro := catalog.Config(plan.TierPro)
		assert.Equal(t, int64(4900), pro.Pricing.Monthly.Amount)
		assert.Equal(t, int64(34800), pro.Pricing.AnnualTotal.Amount)

		enterprise := catalog.Config(plan.TierEnterprise)
		assert.Equal(t, int64(14900), enterprise.Pricing.Monthly.Amount)
		assert.Equal(t, int64(106800), enterprise.Pricing.AnnualTotal.Amount)
	})
}
