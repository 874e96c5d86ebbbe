package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SubscriptionSummary is the dashboard view of a tenant's subscription:
// current state, period boundary, and any pending scheduled change, so the
// billing page can warn about a queued downgrade or cancellation.
type SubscriptionSummary struct {
	SubscriptionID    string     `json:"subscription_id"`
	Status            string     `json:"status"`
	BillingInterval   string     `json:"billing_interval"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	PendingChange     string     `json:"pending_change,omitempty"`

	// ChangeKind is set only when the caller asked how a proposed plan change
	// would apply: immediately (upgrade) or at the period end (downgrade).
	ChangeKind ChangeKind `json:"change_kind,omitempty"`
}

// SummaryService assembles subscription summaries and portal links for the
// dashboard. It never mutates provider state; pending changes are released by
// the tenant through the provider-hosted portal.
type SummaryService struct {
	accounts AccountStore
	provider Provider
}

// NewSummaryService creates the service. Panics on nil dependencies to fail
// fast during startup wiring.
func NewSummaryService(accounts AccountStore, provider Provider) *SummaryService {
	if accounts == nil {
		panic("billing: AccountStore is required")
	}
	if provider == nil {
		panic("billing: Provider is required")
	}
	return &SummaryService{accounts: accounts, provider: provider}
}

// Summary returns the tenant's subscription summary. ErrNoSubscription means
// the tenant has never completed a checkout.
func (s *SummaryService) Summary(ctx context.Context, tenantID uuid.UUID) (*SubscriptionSummary, error) {
	account, err := s.accounts.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !account.HasSubscription() {
		return nil, ErrNoSubscription
	}

	sub, err := s.provider.GetSubscription(ctx, account.ProviderSubscriptionID)
	if err != nil {
		return nil, errors.Join(ErrProviderError, err)
	}

	return &SubscriptionSummary{
		SubscriptionID:    sub.ID,
		Status:            sub.Status,
		BillingInterval:   sub.BillingInterval,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		PendingChange:     sub.PendingChange,
	}, nil
}

// PortalLink returns a provider portal session for the tenant.
func (s *SummaryService) PortalLink(ctx context.Context, tenantID uuid.UUID) (*PortalLink, error) {
	account, err := s.accounts.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if account.ProviderCustomerID == "" {
		return nil, ErrNoSubscription
	}

	var subIDs []string
	if account.HasSubscription() {
		subIDs = []string{account.ProviderSubscriptionID}
	}

	link, err := s.provider.GetPortalLink(ctx, account.ProviderCustomerID, subIDs)
	if err != nil {
		return nil, errors.Join(ErrProviderError, err)
	}
	return link, nil
}
