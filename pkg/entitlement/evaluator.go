package entitlement

import "github.com/providerdir/providerdir/pkg/plan"

// Evaluator answers "can this tenant do X right now" from a tenant snapshot,
// without touching any store. It is a pure value: safe to share across
// goroutines and to call concurrently for different tenants.
//
// The single fallback rule lives here: a tenant's effective tier is its
// stored tier only while its subscription status is in the entitled set,
// otherwise it is free. Every limit and feature check goes through
// EffectiveTier so a tenant who stops paying reverts to free limits with no
// separate administrative action.
type Evaluator struct {
	catalog  plan.Catalog
	entitled map[SubscriptionStatus]struct{}
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEntitledStatuses overrides the set of subscription statuses that keep a
// paid tier entitled. The default is {active, trialing}. Whether past_due
// keeps entitlement during a dunning grace period is a business policy, so it
// is configured here rather than hardcoded.
func WithEntitledStatuses(statuses ...SubscriptionStatus) EvaluatorOption {
	return func(e *Evaluator) {
		if len(statuses) == 0 {
			return
		}
		e.entitled = make(map[SubscriptionStatus]struct{}, len(statuses))
		for _, s := range statuses {
			e.entitled[s] = struct{}{}
		}
	}
}

// NewEvaluator creates an evaluator over the given catalog.
func NewEvaluator(catalog plan.Catalog, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		catalog: catalog,
		entitled: map[SubscriptionStatus]struct{}{
			StatusActive:   {},
			StatusTrialing: {},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Entitled reports whether a subscription status keeps a paid tier active.
func (e *Evaluator) Entitled(status SubscriptionStatus) bool {
	_, ok := e.entitled[status]
	return ok
}

// EffectiveTier returns the tier the tenant is actually entitled to.
// Free never requires a subscription. Paid tiers require an entitled status;
// unknown tiers and unknown statuses both degrade to free.
func (e *Evaluator) EffectiveTier(t Tenant) plan.Tier {
	tier := t.PlanTier
	if !tier.IsValid() {
		return plan.TierFree
	}
	if !tier.IsPaid() {
		return tier
	}
	if !e.Entitled(t.SubscriptionStatus) {
		return plan.TierFree
	}
	return tier
}

// LimitFor returns the count limit for a resource at a given tier,
// plan.Unlimited meaning no limit.
func (e *Evaluator) LimitFor(tier plan.Tier, resource plan.Resource) int64 {
	return e.catalog.Limit(tier, resource)
}

// CanCreate reports whether the tenant may create one more instance of the
// resource given its current count. The check is read-then-act: two
// concurrent creations may both pass and leave the tenant transiently one
// over the limit, which is accepted; limits are enforced at creation, never
// retroactively.
func (e *Evaluator) CanCreate(t Tenant, resource plan.Resource, currentCount int64) bool {
	limit := e.LimitFor(e.EffectiveTier(t), resource)
	if limit == plan.Unlimited {
		return true
	}
	return currentCount < limit
}

// HasFeature reports whether the tenant's effective tier enables a feature.
// Never errors: any ambiguity resolves to false.
func (e *Evaluator) HasFeature(t Tenant, feature plan.Feature) bool {
	return e.catalog.HasFeature(e.EffectiveTier(t), feature)
}
