package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/providerdir/providerdir/pkg/plan"
)

// featuredDiscriminator tags featured-location subscriptions in provider
// metadata so the reconciler can tell them apart from plan subscriptions.
const featuredDiscriminator = "featured_location"

// Location is the slice of a tenant's location the featured purchase flow
// needs: who owns it and whether it is already featured.
type Location struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	Name       string
	IsFeatured bool
}

// LocationStore loads locations for the featured purchase gates.
type LocationStore interface {
	// Get retrieves a location by ID. Returns ErrLocationNotFound if no
	// live location exists.
	Get(ctx context.Context, locationID uuid.UUID) (*Location, error)
}

// PostgresLocationStore reads locations from the locations table, skipping
// soft-deleted rows.
type PostgresLocationStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLocationStore creates a LocationStore backed by pgx.
func NewPostgresLocationStore(pool *pgxpool.Pool) *PostgresLocationStore {
	if pool == nil {
		panic("billing: pgx pool is required")
	}
	return &PostgresLocationStore{pool: pool}
}

func (s *PostgresLocationStore) Get(ctx context.Context, locationID uuid.UUID) (*Location, error) {
	const query = `
		SELECT profile_id, name, is_featured
		FROM locations
		WHERE id = $1 AND deleted_at IS NULL`

	loc := &Location{ID: locationID}
	err := s.pool.QueryRow(ctx, query, locationID).Scan(&loc.ProfileID, &loc.Name, &loc.IsFeatured)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return loc, nil
}

// FeaturedCheckoutParams is a request to buy the featured add-on for one
// location. Tier is the caller-resolved effective tier of the tenant; the
// purchase is only open to paid plans.
type FeaturedCheckoutParams struct {
	TenantID   uuid.UUID
	Email      string
	Tier       plan.Tier
	LocationID uuid.UUID
	Interval   string // "month", "year" or "annual"
}

// StartFeatured validates the featured purchase and creates a provider
// checkout session for the add-on. Gates, in order: the tenant must be on a
// paid plan, the location must exist, belong to the tenant, and not already
// be featured. The session metadata carries the correlation keys the
// reconciler matches on.
func (c *Checkout) StartFeatured(ctx context.Context, params FeaturedCheckoutParams) (*CheckoutSession, error) {
	if c.locations == nil {
		panic("billing: LocationStore is required for featured checkout")
	}
	if !params.Tier.IsPaid() {
		return nil, ErrFeaturedRequiresPaid
	}

	loc, err := c.locations.Get(ctx, params.LocationID)
	if err != nil {
		return nil, err
	}
	if loc.ProfileID != params.TenantID {
		return nil, ErrNotLocationOwner
	}
	if loc.IsFeatured {
		return nil, ErrAlreadyFeatured
	}

	interval := ParseInterval(params.Interval)
	priceID, err := c.prices.FeaturedPriceID(interval)
	if err != nil {
		return nil, err
	}

	locID := params.LocationID.String()
	session, err := c.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		PriceID:    priceID,
		TenantID:   params.TenantID.String(),
		Email:      params.Email,
		SuccessURL: withQueryParam(c.successURL, "featured_success", locID),
		CancelURL:  withQueryParam(c.cancelURL, "featured_cancel", locID),
		Metadata: map[string]string{
			"type":             featuredDiscriminator,
			"profile_id":       params.TenantID.String(),
			"location_id":      locID,
			"billing_interval": string(interval),
		},
	})
	if err != nil {
		if errors.Is(err, ErrPendingScheduleChange) {
			return nil, err
		}
		return nil, errors.Join(ErrProviderError, err)
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return session, nil
}
