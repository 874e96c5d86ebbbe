// Package billing integrates the directory with its payment provider: it
// resolves plan tiers and billing intervals to provider price IDs, creates
// hosted checkout sessions for upgrades, and exposes paged subscription
// listing for the reconciliation job.
//
// The Provider interface is deliberately small (checkout creation plus
// cursor-paged listing) so tests can drive both flows with an in-memory
// fake. The Paddle implementation handles all payment complexity through
// hosted checkouts, keeping card data out of the platform entirely.
//
// Two failure cases are distinguished for callers. An unknown plan fails
// with ErrInvalidPlan before the provider is ever contacted. A provider
// rejection caused by a queued future plan change fails with
// ErrPendingScheduleChange, which is user-actionable (cancel the pending
// change first) rather than a system fault.
package billing
