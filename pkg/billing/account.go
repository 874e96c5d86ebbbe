package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Account links a tenant profile to its provider identifiers. Both IDs are
// empty until the tenant's first completed checkout.
type Account struct {
	TenantID               uuid.UUID
	ProviderCustomerID     string
	ProviderSubscriptionID string
}

// HasSubscription reports whether the tenant has a provider subscription on
// record.
func (a Account) HasSubscription() bool {
	return a.ProviderSubscriptionID != ""
}

// AccountStore loads provider billing identifiers for tenants.
type AccountStore interface {
	// Get retrieves the billing account for a tenant. Returns
	// ErrAccountNotFound if no profile exists.
	Get(ctx context.Context, tenantID uuid.UUID) (*Account, error)
}

// PostgresAccountStore reads provider identifiers from the profiles table.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore creates an AccountStore backed by pgx.
func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	if pool == nil {
		panic("billing: pgx pool is required")
	}
	return &PostgresAccountStore{pool: pool}
}

func (s *PostgresAccountStore) Get(ctx context.Context, tenantID uuid.UUID) (*Account, error) {
	const query = `
		SELECT COALESCE(provider_customer_id, ''), COALESCE(provider_subscription_id, '')
		FROM profiles
		WHERE id = $1`

	account := &Account{TenantID: tenantID}
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(&account.ProviderCustomerID, &account.ProviderSubscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
