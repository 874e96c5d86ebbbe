package entitlement

import (
	"github.com/google/uuid"

	"github.com/providerdir/providerdir/pkg/plan"
)

// SubscriptionStatus is the provider-reported status stored on a tenant
// profile. Values follow the payment provider's vocabulary; anything outside
// the entitled set means the tenant has silently reverted to free limits.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusNone              SubscriptionStatus = ""
)

// Tenant is the profile snapshot the evaluator works on: the stored plan tier
// and the last known subscription status. It carries no behavior of its own;
// entitlement decisions always go through the Evaluator so the status
// fallback rule is applied uniformly.
type Tenant struct {
	ID                 uuid.UUID
	PlanTier           plan.Tier
	SubscriptionStatus SubscriptionStatus
	BillingInterval    string // "month" or "year"; informational only
}
