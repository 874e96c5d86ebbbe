package billing

import "context"

// Provider defines the minimal payment-provider surface the platform needs:
// hosted checkout creation for the upgrade flow and paged subscription
// listing for the reconciler. Keeping the interface this small lets tests
// drive both flows with an in-memory fake and avoids vendor lock-in.
type Provider interface {
	// CreateCheckoutSession creates a hosted checkout session. A rejection
	// caused by a pending subscription schedule (a queued future plan change)
	// must be returned as ErrPendingScheduleChange so callers can surface
	// actionable guidance instead of a generic failure.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// ListSubscriptions returns one page of subscriptions. Pagination is
	// cursor-based: pass the last seen subscription ID as
	// ListParams.StartingAfter and stop when HasMore is false.
	ListSubscriptions(ctx context.Context, params ListParams) (*SubscriptionPage, error)

	// GetSubscription fetches a single subscription, including any pending
	// scheduled change, for the dashboard summary.
	GetSubscription(ctx context.Context, providerSubID string) (*Subscription, error)

	// GetPortalLink creates a provider-hosted portal session for the
	// customer. Releasing a pending scheduled change happens there; the
	// platform never mutates provider subscriptions directly.
	GetPortalLink(ctx context.Context, customerID string, subscriptionIDs []string) (*PortalLink, error)
}
