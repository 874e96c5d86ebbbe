package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionStore persists the featured-subscription ledger in the
// location_featured_subscriptions table.
type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionStore creates a ledger store backed by pgx.
func NewPostgresSubscriptionStore(pool *pgxpool.Pool) *PostgresSubscriptionStore {
	if pool == nil {
		panic("reconcile: pgx pool is required")
	}
	return &PostgresSubscriptionStore{pool: pool}
}

func (s *PostgresSubscriptionStore) Upsert(ctx context.Context, sub *FeaturedSubscription) error {
	const query = `
		INSERT INTO location_featured_subscriptions (
			provider_subscription_id, provider_item_id, profile_id, location_id,
			status, billing_interval, current_period_end, cancel_at_period_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_subscription_id) DO UPDATE SET
			status = EXCLUDED.status,
			billing_interval = EXCLUDED.billing_interval,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			updated_at = now()`

	_, err := s.pool.Exec(ctx, query,
		sub.ProviderSubID,
		sub.ProviderItemID,
		sub.ProfileID,
		sub.LocationID,
		string(sub.Status),
		sub.BillingInterval,
		sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd,
	)
	return err
}

// PostgresLocationFlagStore writes the derived featured flag onto locations.
type PostgresLocationFlagStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLocationFlagStore creates a flag store backed by pgx.
func NewPostgresLocationFlagStore(pool *pgxpool.Pool) *PostgresLocationFlagStore {
	if pool == nil {
		panic("reconcile: pgx pool is required")
	}
	return &PostgresLocationFlagStore{pool: pool}
}

func (s *PostgresLocationFlagStore) SetFeatured(ctx context.Context, locationID uuid.UUID, featured bool) error {
	const query = `UPDATE locations SET is_featured = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, locationID, featured)
	return err
}
