// Package reconcile aligns local featured-location state with the payment
// provider's authoritative subscription records.
//
// A pass pages through every provider subscription (cursor = last seen ID),
// keeps the ones whose metadata type marks them as featured-location
// add-ons, and for each one: normalizes the provider status to
// active/past_due/cancelled, upserts the local ledger record keyed by the
// provider subscription ID, and sets is_featured on the linked location to
// whether the normalized status is still entitled.
//
// The ledger upsert and the flag write are independent consistency domains;
// each is attempted even if the other fails, failures are logged and the
// pass moves on. Re-running a pass with no upstream changes writes the same
// values again and changes nothing, so an interrupted pass is recovered by
// simply running the job again from the start.
package reconcile
