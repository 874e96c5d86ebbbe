package billing

import "errors"

var (
	// ErrInvalidPlan is returned before any provider call when the requested
	// plan is not a purchasable tier. Surfaced to users as "Invalid plan
	// selected".
	ErrInvalidPlan = errors.New("invalid plan selected")

	// ErrPendingScheduleChange marks the provider rejecting checkout because
	// the tenant has a queued future plan change. User-actionable: the
	// pending change must be cancelled first.
	ErrPendingScheduleChange = errors.New("subscription has a pending scheduled change; cancel it before changing plans")

	ErrPriceNotConfigured = errors.New("no price configured for plan and interval")
	ErrNoCheckoutURL      = errors.New("no checkout URL returned from provider")
	ErrProviderError      = errors.New("billing provider error")

	ErrMissingAPIKey = errors.New("billing provider API key is required")

	ErrAccountNotFound = errors.New("billing account not found")
	ErrNoSubscription  = errors.New("tenant has no provider subscription")

	// Featured-location purchase gates. Surfaced to users with the copy the
	// dashboard shows for each case.
	ErrLocationNotFound     = errors.New("location not found")
	ErrNotLocationOwner     = errors.New("not authorized")
	ErrAlreadyFeatured      = errors.New("location is already featured")
	ErrFeaturedRequiresPaid = errors.New("featured upgrade requires a paid plan")
)
