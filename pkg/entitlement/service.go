package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/providerdir/providerdir/pkg/plan"
)

// Service is the request-scoped entitlement surface: it resolves the tenant
// snapshot from storage, counts current usage through registered counters and
// delegates the actual decision to the pure Evaluator.
type Service interface {
	// CanCreate returns nil if the tenant may create one more instance of the
	// resource, ErrLimitExceeded if it is at its effective-tier limit.
	CanCreate(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) error

	// GetUsage returns current usage and the effective limit for a resource.
	GetUsage(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) (used, limit int64, err error)

	// GetUsageSafe is GetUsage with zero values on error, for dashboards.
	GetUsageSafe(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) (used, limit int64)

	// HasFeature reports whether the tenant's effective tier enables a
	// feature. Returns false on any error to fail closed.
	HasFeature(ctx context.Context, tenantID uuid.UUID, feature plan.Feature) bool

	// EffectiveTier resolves the tenant and applies the fallback rule.
	// Callers derive upgrade candidates from the result via
	// plan.UpgradeCandidates.
	EffectiveTier(ctx context.Context, tenantID uuid.UUID) (plan.Tier, error)
}

// TenantStore loads tenant billing snapshots.
type TenantStore interface {
	// Get retrieves a tenant by ID. Returns ErrTenantNotFound if no profile
	// exists.
	Get(ctx context.Context, tenantID uuid.UUID) (*Tenant, error)
}

// ResourceCounterFunc returns the current usage for a tenant resource.
// Called on every creation attempt, so implementations should be a cheap
// aggregate query or a cached value.
type ResourceCounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

type service struct {
	evaluator *Evaluator
	store     TenantStore
	counters  map[plan.Resource]ResourceCounterFunc
}

// NewService creates an entitlement Service. Panics if evaluator or store is
// nil to fail fast during initialization.
func NewService(evaluator *Evaluator, store TenantStore, opts ...ServiceOption) Service {
	if evaluator == nil {
		panic("entitlement: Evaluator is required")
	}
	if store == nil {
		panic("entitlement: TenantStore is required")
	}

	s := &service{
		evaluator: evaluator,
		store:     store,
		counters:  make(map[plan.Resource]ResourceCounterFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CanCreate(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) error {
	tenant, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	limit := s.evaluator.LimitFor(s.evaluator.EffectiveTier(*tenant), resource)
	if limit == plan.Unlimited {
		return nil
	}

	counter, ok := s.counters[resource]
	if !ok {
		return ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID)
	if err != nil {
		return errors.Join(ErrFailedToCountUsage, err)
	}

	if current >= limit {
		return ErrLimitExceeded
	}
	return nil
}

func (s *service) GetUsage(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) (int64, int64, error) {
	tenant, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}

	limit := s.evaluator.LimitFor(s.evaluator.EffectiveTier(*tenant), resource)

	counter, ok := s.counters[resource]
	if !ok {
		return 0, 0, ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID)
	if err != nil {
		return 0, 0, errors.Join(ErrFailedToCountUsage, err)
	}

	return current, limit, nil
}

func (s *service) GetUsageSafe(ctx context.Context, tenantID uuid.UUID, resource plan.Resource) (int64, int64) {
	used, limit, _ := s.GetUsage(ctx, tenantID, resource)
	return used, limit
}

func (s *service) HasFeature(ctx context.Context, tenantID uuid.UUID, feature plan.Feature) bool {
	tenant, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return false
	}
	return s.evaluator.HasFeature(*tenant, feature)
}

func (s *service) EffectiveTier(ctx context.Context, tenantID uuid.UUID) (plan.Tier, error) {
	tenant, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return plan.TierFree, err
	}
	return s.evaluator.EffectiveTier(*tenant), nil
}
