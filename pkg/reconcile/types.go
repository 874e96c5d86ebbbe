package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Status is the normalized add-on subscription state stored locally. Every
// provider status collapses into exactly one of these three.
type Status string

const (
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

// NormalizeStatus maps a provider subscription status onto the local
// three-state model: active and trialing are both entitled, past_due keeps
// the feature through the dunning grace period, and everything else
// (canceled, incomplete_expired, paused, ...) is cancelled.
func NormalizeStatus(providerStatus string) Status {
	switch providerStatus {
	case "active", "trialing":
		return StatusActive
	case "past_due":
		return StatusPastDue
	default:
		return StatusCancelled
	}
}

// Featured reports whether the normalized status entitles the linked
// location to the featured flag. past_due stays featured until the provider
// finally cancels.
func (s Status) Featured() bool {
	return s == StatusActive || s == StatusPastDue
}

// FeaturedSubscription is the local ledger record for one featured-location
// add-on, keyed by the provider's subscription ID.
type FeaturedSubscription struct {
	ProviderSubID     string
	ProviderItemID    string
	ProfileID         uuid.UUID
	LocationID        uuid.UUID
	Status            Status
	BillingInterval   string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
}

// Result summarizes one reconciliation pass. Failures counts per-item errors
// that were logged and skipped; they never abort the pass.
type Result struct {
	Fetched  int // provider records seen across all pages
	Matched  int // records carrying the add-on discriminator
	Upserted int // ledger upserts that succeeded
	FlagsSet int // location flag writes that succeeded
	Skipped  int // records missing correlation keys
	Failures int // per-item store errors
}
