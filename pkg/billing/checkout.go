package billing

import (
	"context"
	"errors"
	"net/url"

	"github.com/google/uuid"

	"github.com/providerdir/providerdir/pkg/plan"
)

// CheckoutParams is the user-facing upgrade request: which plan, which
// billing interval, and where to land after payment.
type CheckoutParams struct {
	TenantID uuid.UUID
	Email    string
	Plan     string // "pro" or "enterprise"; anything else is rejected
	Interval string // "month", "year" or "annual"
	ReturnTo string // optional path appended to the success redirect
}

// Checkout orchestrates the upgrade flow: resolve plan and interval to a
// price, create a provider checkout session, hand back the redirect URL. It
// holds no state between requests.
type Checkout struct {
	prices     PriceTable
	provider   Provider
	locations  LocationStore
	successURL string
	cancelURL  string
}

// CheckoutOption configures optional orchestrator capabilities.
type CheckoutOption func(*Checkout)

// WithLocationStore enables the featured-location purchase flow, which needs
// to look up location ownership and featured state.
func WithLocationStore(store LocationStore) CheckoutOption {
	return func(c *Checkout) {
		c.locations = store
	}
}

// NewCheckout creates the orchestrator. successURL and cancelURL are the
// absolute URLs the provider redirects to after checkout.
func NewCheckout(prices PriceTable, provider Provider, successURL, cancelURL string, opts ...CheckoutOption) *Checkout {
	if provider == nil {
		panic("billing: Provider is required")
	}
	c := &Checkout{
		prices:     prices,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start validates the request and creates a checkout session. An
// unrecognized plan returns ErrInvalidPlan without contacting the provider.
// Provider rejections for a pending scheduled change come back as
// ErrPendingScheduleChange; everything else is wrapped as ErrProviderError.
func (c *Checkout) Start(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	tier := plan.Tier(params.Plan)
	if !tier.IsPaid() {
		return nil, ErrInvalidPlan
	}

	interval := ParseInterval(params.Interval)

	priceID, err := c.prices.PriceID(tier, interval)
	if err != nil {
		return nil, err
	}

	successURL := c.successURL
	cancelURL := c.cancelURL
	if params.ReturnTo != "" {
		successURL = withQueryParam(successURL, "return_to", params.ReturnTo)
		cancelURL = withQueryParam(cancelURL, "return_to", params.ReturnTo)
	}

	session, err := c.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		PriceID:    priceID,
		TenantID:   params.TenantID.String(),
		Email:      params.Email,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			"profile_id":       params.TenantID.String(),
			"plan_tier":        string(tier),
			"billing_interval": string(interval),
		},
	})
	if err != nil {
		if errors.Is(err, ErrPendingScheduleChange) {
			return nil, err
		}
		return nil, errors.Join(ErrProviderError, err)
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return session, nil
}

// withQueryParam appends key=value to base, escaping the value and merging
// with any query the base already carries. A base that does not parse is
// returned unchanged.
func withQueryParam(base, key, value string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// ChangeKind classifies a plan change for an existing subscriber.
type ChangeKind string

const (
	// ChangeNone means tier and interval are unchanged.
	ChangeNone ChangeKind = "none"
	// ChangeUpgrade applies immediately with proration: a higher tier, or a
	// switch from monthly to annual billing.
	ChangeUpgrade ChangeKind = "upgrade"
	// ChangeDowngrade is scheduled at the end of the current period with no
	// credit: a lower tier, or a switch from annual back to monthly.
	ChangeDowngrade ChangeKind = "downgrade"
)

// ClassifyChange decides how a plan change should be applied. Tier movement
// wins over interval movement; month-to-year alone is treated as an upgrade
// so the subscriber is charged the prorated difference right away.
func ClassifyChange(currentTier, targetTier plan.Tier, currentInterval, targetInterval Interval) ChangeKind {
	switch {
	case targetTier.Compare(currentTier) > 0:
		return ChangeUpgrade
	case targetTier.Compare(currentTier) < 0:
		return ChangeDowngrade
	case currentInterval == IntervalMonth && targetInterval == IntervalYear:
		return ChangeUpgrade
	case currentInterval == IntervalYear && targetInterval == IntervalMonth:
		return ChangeDowngrade
	default:
		return ChangeNone
	}
}
