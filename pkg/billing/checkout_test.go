package billing_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/plan"
)

type fakeProvider struct {
	session  *billing.CheckoutSession
	err      error
	calls    int
	lastReq  billing.CheckoutRequest
	listResp *billing.SubscriptionPage
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func (p *fakeProvider) ListSubscriptions(context.Context, billing.ListParams) (*billing.SubscriptionPage, error) {
	return p.listResp, nil
}

func (p *fakeProvider) GetSubscription(context.Context, string) (*billing.Subscription, error) {
	return nil, errors.New("not implemented")
}

func (p *fakeProvider) GetPortalLink(context.Context, string, []string) (*billing.PortalLink, error) {
	return nil, errors.New("not implemented")
}

func newCheckout(provider *fakeProvider) *billing.Checkout {
	return billing.NewCheckout(
		billing.NewPriceTable(testPriceConfig()),
		provider,
		"https://example.com/billing/success",
		"https://example.com/billing/cancel",
	)
}

func TestCheckoutStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("CreatesSession", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/cs_123"}}
		tenantID := uuid.New()

		session, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
			TenantID: tenantID,
			Email:    "owner@agency.test",
			Plan:     "pro",
			Interval: "annual",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/cs_123", session.URL)

		assert.Equal(t, "pri_pro_y", provider.lastReq.PriceID)
		assert.Equal(t, tenantID.String(), provider.lastReq.Metadata["profile_id"])
		assert.Equal(t, "pro", provider.lastReq.Metadata["plan_tier"])
		assert.Equal(t, "year", provider.lastReq.Metadata["billing_interval"])
	})

	t.Run("InvalidPlanNeverContactsProvider", func(t *testing.T) {
		t.Parallel()
		for _, p := range []string{"", "free", "platinum", "PRO"} {
			provider := &fakeProvider{}
			_, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
				TenantID: uuid.New(),
				Plan:     p,
			})
			assert.ErrorIs(t, err, billing.ErrInvalidPlan, "plan %q", p)
			assert.Zero(t, provider.calls, "plan %q", p)
		}
	})

	t.Run("ReturnToAppendedToRedirects", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/cs_123"}}

		_, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
			TenantID: uuid.New(),
			Plan:     "enterprise",
			ReturnTo: "/dashboard/locations",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/billing/success?return_to=%2Fdashboard%2Flocations", provider.lastReq.SuccessURL)
		assert.Equal(t, "https://example.com/billing/cancel?return_to=%2Fdashboard%2Flocations", provider.lastReq.CancelURL)
	})

	t.Run("ReturnToIsEscaped", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{URL: "https://pay.example.com/cs_123"}}
		// A base URL that already carries a query must not gain a second "?",
		// and reserved characters in the return path must not split the query.
		checkout := billing.NewCheckout(
			billing.NewPriceTable(testPriceConfig()),
			provider,
			"https://example.com/billing/success?src=email",
			"https://example.com/billing/cancel?src=email",
		)

		_, err := checkout.Start(ctx, billing.CheckoutParams{
			TenantID: uuid.New(),
			Plan:     "pro",
			ReturnTo: "/dashboard?tab=billing&view=plans#top",
		})
		require.NoError(t, err)

		success, perr := url.Parse(provider.lastReq.SuccessURL)
		require.NoError(t, perr)
		assert.Equal(t, "/dashboard?tab=billing&view=plans#top", success.Query().Get("return_to"))
		assert.Equal(t, "email", success.Query().Get("src"))
		assert.Empty(t, success.Fragment)

		cancel, perr := url.Parse(provider.lastReq.CancelURL)
		require.NoError(t, perr)
		assert.Equal(t, "/dashboard?tab=billing&view=plans#top", cancel.Query().Get("return_to"))
		assert.Equal(t, "email", cancel.Query().Get("src"))
	})

	t.Run("PendingScheduleChangePassesThrough", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{err: billing.ErrPendingScheduleChange}

		_, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
			TenantID: uuid.New(),
			Plan:     "pro",
		})
		assert.ErrorIs(t, err, billing.ErrPendingScheduleChange)
		assert.NotErrorIs(t, err, billing.ErrProviderError)
	})

	t.Run("OtherProviderFailuresAreWrapped", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("upstream 500")
		provider := &fakeProvider{err: cause}

		_, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
			TenantID: uuid.New(),
			Plan:     "pro",
		})
		assert.ErrorIs(t, err, billing.ErrProviderError)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("EmptySessionURL", func(t *testing.T) {
		t.Parallel()
		provider := &fakeProvider{session: &billing.CheckoutSession{}}

		_, err := newCheckout(provider).Start(ctx, billing.CheckoutParams{
			TenantID: uuid.New(),
			Plan:     "pro",
		})
		assert.ErrorIs(t, err, billing.ErrNoCheckoutURL)
	})
}

func TestClassifyChange(t *testing.T) {
	t.Parallel()

	t.Run("TierMovementWins", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, billing.ChangeUpgrade,
			billing.ClassifyChange(plan.TierPro, plan.TierEnterprise, billing.IntervalYear, billing.IntervalMonth))
		assert.Equal(t, billing.ChangeDowngrade,
			billing.ClassifyChange(plan.TierEnterprise, plan.TierPro, billing.IntervalMonth, billing.IntervalYear))
	})

	t.Run("IntervalOnly", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, billing.ChangeUpgrade,
			billing.ClassifyChange(plan.TierPro, plan.TierPro, billing.IntervalMonth, billing.IntervalYear))
		assert.Equal(t, billing.ChangeDowngrade,
			billing.ClassifyChange(plan.TierPro, plan.TierPro, billing.IntervalYear, billing.IntervalMonth))
	})

	t.Run("NoChange", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, billing.ChangeNone,
			billing.ClassifyChange(plan.TierPro, plan.TierPro, billing.IntervalMonth, billing.IntervalMonth))
	})
}
