package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/providerdir/providerdir/pkg/plan"
)

// PostgresTenantStore reads tenant billing snapshots from the profiles table.
type PostgresTenantStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTenantStore creates a TenantStore backed by pgx.
func NewPostgresTenantStore(pool *pgxpool.Pool) *PostgresTenantStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PostgresTenantStore{pool: pool}
}

func (s *PostgresTenantStore) Get(ctx context.Context, tenantID uuid.UUID) (*Tenant, error) {
	const query = `
		SELECT plan_tier, COALESCE(subscription_status, ''), COALESCE(billing_interval, 'month')
		FROM profiles
		WHERE id = $1`

	var (
		tier     string
		status   string
		interval string
	)
	if err := s.pool.QueryRow(ctx, query, tenantID).Scan(&tier, &status, &interval); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &Tenant{
		ID:                 tenantID,
		PlanTier:           plan.ParseTier(tier),
		SubscriptionStatus: SubscriptionStatus(status),
		BillingInterval:    interval,
	}, nil
}

// PostgresCounter returns a ResourceCounterFunc counting active rows of a
// tenant-owned table. Only the two tables used for plan limits are allowed;
// the table name is selected here, never interpolated from caller input.
func PostgresCounter(pool *pgxpool.Pool, resource plan.Resource) ResourceCounterFunc {
	var query string
	switch resource {
	case plan.ResourceLocations:
		query = `SELECT COUNT(*) FROM locations WHERE profile_id = $1 AND deleted_at IS NULL`
	case plan.ResourceJobPostings:
		query = `SELECT COUNT(*) FROM job_postings WHERE profile_id = $1 AND status != 'closed'`
	default:
		panic("entitlement: no counter query for resource " + string(resource))
	}

	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		var count int64
		if err := pool.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
			return 0, err
		}
		return count, nil
	}
}
