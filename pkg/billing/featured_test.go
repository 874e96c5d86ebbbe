package billing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/plan"
)

type fakeLocationStore struct {
	location *billing.Location
	calls    int
}

func (s *fakeLocationStore) Get(_ context.Context, locationID uuid.UUID) (*billing.Location, error) {
	s.calls++
	if s.location == nil || s.location.ID != locationID {
		return nil, billing.ErrLocationNotFound
	}
	return s.location, nil
}

func newFeaturedCheckout(provider *fakeProvider, locations *fakeLocationStore) *billing.Checkout {
	return billing.NewCheckout(
		billing.NewPriceTable(testPriceConfig()),
		provider,
		"https://example.com/dashboard/locations",
		"https://example.com/dashboard/locations",
		billing.WithLocationStore(locations),
	)
}

func TestStartFeatured(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("CreatesSessionWithCorrelationKeys", func(t *testing.T) {
		t.Parallel()
		tenantID := uuid.New()
		locationID := uuid.New()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/cs_feat"}}
		locations := &fakeLocationStore{location: &billing.Location{ID: locationID, ProfileID: tenantID, Name: "Downtown"}}

		session, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   tenantID,
			Email:      "owner@agency.test",
			Tier:       plan.TierPro,
			LocationID: locationID,
			Interval:   "annual",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/cs_feat", session.URL)

		assert.Equal(t, "pri_feat_y", provider.lastReq.PriceID)
		assert.Equal(t, "featured_location", provider.lastReq.Metadata["type"])
		assert.Equal(t, tenantID.String(), provider.lastReq.Metadata["profile_id"])
		assert.Equal(t, locationID.String(), provider.lastReq.Metadata["location_id"])
		assert.Equal(t, "year", provider.lastReq.Metadata["billing_interval"])
		assert.Equal(t, "https://example.com/dashboard/locations?featured_success="+locationID.String(), provider.lastReq.SuccessURL)
		assert.Equal(t, "https://example.com/dashboard/locations?featured_cancel="+locationID.String(), provider.lastReq.CancelURL)
	})

	t.Run("DefaultIntervalIsMonthly", func(t *testing.T) {
		t.Parallel()
		tenantID := uuid.New()
		locationID := uuid.New()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/cs_feat"}}
		locations := &fakeLocationStore{location: &billing.Location{ID: locationID, ProfileID: tenantID}}

		_, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   tenantID,
			Tier:       plan.TierEnterprise,
			LocationID: locationID,
		})
		require.NoError(t, err)
		assert.Equal(t, "pri_feat_m", provider.lastReq.PriceID)
		assert.Equal(t, "month", provider.lastReq.Metadata["billing_interval"])
	})

	t.Run("FreeTierRejectedBeforeAnyLookup", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{}
		locations := &fakeLocationStore{}

		for _, tier := range []plan.Tier{plan.TierFree, plan.Tier("platinum"), ""} {
			_, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
				TenantID:   uuid.New(),
				Tier:       tier,
				LocationID: uuid.New(),
			})
			assert.ErrorIs(t, err, billing.ErrFeaturedRequiresPaid, "tier %q", tier)
		}
		assert.Zero(t, locations.calls)
		assert.Zero(t, provider.calls)
	})

	t.Run("UnknownLocation", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{}

		_, err := newFeaturedCheckout(provider, &fakeLocationStore{}).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   uuid.New(),
			Tier:       plan.TierPro,
			LocationID: uuid.New(),
		})
		assert.ErrorIs(t, err, billing.ErrLocationNotFound)
		assert.Zero(t, provider.calls)
	})

	t.Run("ForeignLocationRejected", func(t *testing.T) {
		t.Parallel()
		locationID := uuid.New()
		provider := &fakeProvider{}
		locations := &fakeLocationStore{location: &billing.Location{ID: locationID, ProfileID: uuid.New()}}

		_, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   uuid.New(),
			Tier:       plan.TierPro,
			LocationID: locationID,
		})
		assert.ErrorIs(t, err, billing.ErrNotLocationOwner)
		assert.Zero(t, provider.calls)
	})

	t.Run("AlreadyFeaturedRejected", func(t *testing.T) {
		t.Parallel()
		tenantID := uuid.New()
		locationID := uuid.New()
		provider := &fakeProvider{}
		locations := &fakeLocationStore{location: &billing.Location{ID: locationID, ProfileID: tenantID, IsFeatured: true}}

		_, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   tenantID,
			Tier:       plan.TierEnterprise,
			LocationID: locationID,
		})
		assert.ErrorIs(t, err, billing.ErrAlreadyFeatured)
		assert.Zero(t, provider.calls)
	})

	t.Run("EmptySessionURL", func(t *testing.T) {
		t.Parallel()
		tenantID := uuid.New()
		locationID := uuid.New()
		provider := &fakeProvider{session: &billing.CheckoutSession{}}
		locations := &fakeLocationStore{location: &billing.Location{ID: locationID, ProfileID: tenantID}}

		_, err := newFeaturedCheckout(provider, locations).StartFeatured(ctx, billing.FeaturedCheckoutParams{
			TenantID:   tenantID,
			Tier:       plan.TierPro,
			LocationID: locationID,
		})
		assert.ErrorIs(t, err, billing.ErrNoCheckoutURL)
	})
}
