package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/logger"
)

// SubscriptionLister is the slice of the billing provider the reconciler
// needs: one page of subscriptions per call, cursor-paged.
type SubscriptionLister interface {
	ListSubscriptions(ctx context.Context, params billing.ListParams) (*billing.SubscriptionPage, error)
}

// Reconciler restores consistency between the payment provider's
// authoritative subscription records and the local featured-location state.
// It is a sequential batch pass: fetch everything, then process each
// matching subscription independently. Per-item failures are logged and
// skipped, never fatal; the pass is idempotent and safe to re-run from the
// start at any time.
type Reconciler struct {
	lister        SubscriptionLister
	subscriptions SubscriptionStore
	locations     LocationFlagStore
	log           *slog.Logger
	discriminator string
	pageSize      int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDiscriminator overrides the metadata type value that marks an add-on
// subscription as ours. Default is "featured_location".
func WithDiscriminator(value string) Option {
	return func(r *Reconciler) {
		if value != "" {
			r.discriminator = value
		}
	}
}

// WithPageSize overrides the provider page size. Default is 100.
func WithPageSize(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithLogger sets the logger for per-item progress and failures.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Reconciler. Panics if any dependency is nil to fail fast
// during initialization.
func New(lister SubscriptionLister, subscriptions SubscriptionStore, locations LocationFlagStore, opts ...Option) *Reconciler {
	if lister == nil {
		panic("reconcile: SubscriptionLister is required")
	}
	if subscriptions == nil {
		panic("reconcile: SubscriptionStore is required")
	}
	if locations == nil {
		panic("reconcile: LocationFlagStore is required")
	}

	r := &Reconciler{
		lister:        lister,
		subscriptions: subscriptions,
		locations:     locations,
		log:           slog.Default(),
		discriminator: "featured_location",
		pageSize:      100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one reconciliation pass. It returns an error only when the
// provider could not be listed at all; per-item problems are recorded in the
// Result and logged.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	matched, err := r.fetchMatching(ctx, result)
	if err != nil {
		return nil, err
	}

	r.log.InfoContext(ctx, "fetched featured subscriptions from provider",
		slog.Int("fetched", result.Fetched),
		slog.Int("matched", result.Matched),
	)

	for i := range matched {
		r.reconcileOne(ctx, &matched[i], result)
	}

	r.log.InfoContext(ctx, "reconciliation pass complete",
		slog.Int("upserted", result.Upserted),
		slog.Int("flags_set", result.FlagsSet),
		slog.Int("skipped", result.Skipped),
		slog.Int("failures", result.Failures),
	)

	return result, nil
}

// fetchMatching pages through all provider subscriptions and keeps the ones
// carrying our discriminator. The cursor is the ID of the last record of
// each raw page, matched or not.
func (r *Reconciler) fetchMatching(ctx context.Context, result *Result) ([]billing.Subscription, error) {
	var matched []billing.Subscription
	cursor := ""

	for {
		page, err := r.lister.ListSubscriptions(ctx, billing.ListParams{
			Limit:         r.pageSize,
			StartingAfter: cursor,
		})
		if err != nil {
			return nil, errors.Join(ErrProviderUnavailable, err)
		}

		result.Fetched += len(page.Subscriptions)

		for _, sub := range page.Subscriptions {
			if sub.Metadata["type"] == r.discriminator {
				matched = append(matched, sub)
			}
		}

		if len(page.Subscriptions) > 0 {
			cursor = page.Subscriptions[len(page.Subscriptions)-1].ID
		}
		if !page.HasMore || len(page.Subscriptions) == 0 {
			break
		}
	}

	result.Matched = len(matched)
	return matched, nil
}

// reconcileOne processes a single provider subscription: extract correlation
// keys, normalize the status, upsert the ledger record and propagate the
// featured flag. The two writes are attempted independently; either may fail
// without suppressing the other.
func (r *Reconciler) reconcileOne(ctx context.Context, sub *billing.Subscription, result *Result) {
	profileID, profileErr := uuid.Parse(sub.Metadata["profile_id"])
	locationID, locationErr := uuid.Parse(sub.Metadata["location_id"])
	if profileErr != nil || locationErr != nil {
		// Orphaned subscription: cannot reconcile without both keys.
		result.Skipped++
		r.log.WarnContext(ctx, "skipping subscription with missing correlation keys",
			logger.SubscriptionID(sub.ID),
		)
		return
	}

	interval := sub.Metadata["billing_interval"]
	if interval == "" {
		interval = sub.BillingInterval
	}
	if interval == "" {
		interval = "month"
	}

	status := NormalizeStatus(sub.Status)

	r.log.InfoContext(ctx, "processing featured subscription",
		logger.SubscriptionID(sub.ID),
		slog.String("location_id", locationID.String()),
		slog.String("profile_id", profileID.String()),
		slog.String("status", string(status)),
		slog.String("billing_interval", interval),
		slog.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd),
	)

	record := &FeaturedSubscription{
		ProviderSubID:     sub.ID,
		ProviderItemID:    sub.ItemID,
		ProfileID:         profileID,
		LocationID:        locationID,
		Status:            status,
		BillingInterval:   interval,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}

	if err := r.subscriptions.Upsert(ctx, record); err != nil {
		result.Failures++
		r.log.ErrorContext(ctx, "failed to upsert featured subscription",
			logger.SubscriptionID(sub.ID),
			logger.Error(err),
		)
	} else {
		result.Upserted++
	}

	if err := r.locations.SetFeatured(ctx, locationID, status.Featured()); err != nil {
		result.Failures++
		r.log.ErrorContext(ctx, "failed to update location featured flag",
			slog.String("location_id", locationID.String()),
			logger.Error(err),
		)
	} else {
		result.FlagsSet++
	}
}
