package reconcile

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionStore persists the local add-on subscription ledger.
type SubscriptionStore interface {
	// Upsert creates or updates the record keyed by ProviderSubID. Running
	// it again with identical values must be a no-op so reconciliation stays
	// idempotent.
	Upsert(ctx context.Context, sub *FeaturedSubscription) error
}

// LocationFlagStore propagates the derived featured flag onto locations.
// It is a separate interface from SubscriptionStore because the two writes
// belong to different consistency domains: a failed ledger upsert must not
// prevent the flag write from being attempted, and vice versa.
type LocationFlagStore interface {
	SetFeatured(ctx context.Context, locationID uuid.UUID, featured bool) error
}
