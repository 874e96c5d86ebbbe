package billing

import "time"

// Interval represents the billing frequency for a paid plan.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// ParseInterval normalizes a billing interval from user input. "annual" is
// accepted as a synonym for "year"; anything unrecognized defaults to month,
// matching how the checkout page has always treated the parameter.
func ParseInterval(s string) Interval {
	switch s {
	case "year", "annual":
		return IntervalYear
	default:
		return IntervalMonth
	}
}

// Subscription is a provider subscription record as consumed by the
// reconciler: the provider status verbatim, the free-form metadata carrying
// our correlation keys, and the billing-period fields the local ledger
// mirrors.
type Subscription struct {
	ID                string
	Status            string // provider vocabulary: active, trialing, past_due, canceled, ...
	Metadata          map[string]string
	ItemID            string // provider's subscription item / line identifier
	BillingInterval   string // "month" or "year" when the provider reports it
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	PendingChange     string // scheduled change action ("cancel", "pause", ...), empty when none
}

// ListParams selects one page of subscriptions. StartingAfter is the ID of
// the last record of the previous page; empty means the first page.
type ListParams struct {
	Limit         int
	StartingAfter string
}

// SubscriptionPage is one page of provider subscriptions. HasMore tells the
// caller to fetch again with the last record's ID as the next cursor.
type SubscriptionPage struct {
	Subscriptions []Subscription
	HasMore       bool
}

// CheckoutRequest contains data needed to create a hosted checkout session.
type CheckoutRequest struct {
	PriceID    string
	TenantID   string
	Email      string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession represents a hosted checkout session the client navigates
// to with a full redirect; no client-side state survives the hop.
type CheckoutSession struct {
	URL       string
	SessionID string
	ExpiresAt time.Time
}

// PortalLink points at the provider-hosted customer portal, where the tenant
// manages payment methods, cancels, and releases pending scheduled changes.
type PortalLink struct {
	URL              string
	CancelURL        string
	UpdatePaymentURL string
	ExpiresAt        time.Time
}
