// Package entitlement decides what a tenant may do based on its plan tier
// and subscription status.
//
// The core is the Evaluator, a pure value over an injected plan.Catalog. It
// applies one rule everywhere: a paid tier counts only while the subscription
// status is entitled (active or trialing by default), otherwise the tenant is
// evaluated as free. All count limits and feature flags go through that rule,
// and every ambiguity (unknown tier, missing status) degrades to the free
// interpretation — fail closed, since this gates paid features.
//
// The Service wraps the Evaluator with tenant resolution and per-resource
// usage counters, mirroring how request handlers consume it:
//
//	evaluator := entitlement.NewEvaluator(plan.Default())
//	svc := entitlement.NewService(evaluator, store,
//		entitlement.WithCounter(plan.ResourceLocations, entitlement.PostgresCounter(pool, plan.ResourceLocations)),
//	)
//	if err := svc.CanCreate(ctx, tenantID, plan.ResourceLocations); err != nil {
//		// surface upgrade prompt
//	}
//
// Count checks are read-then-act: two concurrent creations can both pass and
// leave a tenant transiently over limit. That is accepted; limits are
// enforced at creation time and never retroactively.
package entitlement
