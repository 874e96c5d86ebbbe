package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	PageSize    int    `env:"PADDLE_PAGE_SIZE" envDefault:"100"`
}

// PaddleProvider implements Provider for Paddle.
type PaddleProvider struct {
	client   *paddle.SDK
	pageSize int
}

// NewPaddleProvider creates a new Paddle billing provider.
func NewPaddleProvider(config PaddleConfig) (*PaddleProvider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, fmt.Errorf("invalid paddle environment: %s", config.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 100
	}

	return &PaddleProvider{
		client:   client,
		pageSize: pageSize,
	}, nil
}

// CreateCheckoutSession creates a hosted checkout transaction in Paddle.
func (p *PaddleProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, errors.New("price ID is required")
	}
	if req.TenantID == "" {
		return nil, errors.New("tenant ID is required")
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	customData := paddle.CustomData{}
	for k, v := range req.Metadata {
		customData[k] = v
	}
	if req.Email != "" {
		customData["email"] = req.Email
	}

	transactionReq := &paddle.CreateTransactionRequest{
		Items:      []paddle.CreateTransactionItems{*item},
		CustomData: customData,
	}
	if req.SuccessURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		if isPendingScheduleError(err) {
			return nil, errors.Join(ErrPendingScheduleChange, err)
		}
		return nil, fmt.Errorf("failed to create paddle transaction: %w", err)
	}

	var checkoutURL string
	if transaction.Checkout != nil && transaction.Checkout.URL != nil {
		checkoutURL = *transaction.Checkout.URL
	}
	if checkoutURL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{
		URL:       checkoutURL,
		SessionID: transaction.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour), // Paddle checkout links typically expire in 24 hours
	}, nil
}

// ListSubscriptions fetches one page of subscriptions from Paddle.
func (p *PaddleProvider) ListSubscriptions(ctx context.Context, params ListParams) (*SubscriptionPage, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = p.pageSize
	}

	req := &paddle.ListSubscriptionsRequest{
		PerPage: paddle.PtrTo(limit),
	}
	if params.StartingAfter != "" {
		req.After = paddle.PtrTo(params.StartingAfter)
	}

	res, err := p.client.SubscriptionsClient.ListSubscriptions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list paddle subscriptions: %w", err)
	}

	page := &SubscriptionPage{}
	err = res.Iter(ctx, func(sub *paddle.Subscription) (bool, error) {
		mapped, mapErr := fromPaddleSubscription(sub)
		if mapErr != nil {
			return false, mapErr
		}
		page.Subscriptions = append(page.Subscriptions, mapped)
		// The collection iterator fetches further pages on its own; stop at
		// the page boundary so the caller controls the cursor.
		return len(page.Subscriptions) < limit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate paddle subscriptions: %w", err)
	}

	// A full page means there may be more records behind the cursor.
	page.HasMore = len(page.Subscriptions) == limit
	return page, nil
}

// GetSubscription fetches one subscription from Paddle.
func (p *PaddleProvider) GetSubscription(ctx context.Context, providerSubID string) (*Subscription, error) {
	if providerSubID == "" {
		return nil, errors.New("subscription ID is required")
	}

	sub, err := p.client.SubscriptionsClient.GetSubscription(ctx, &paddle.GetSubscriptionRequest{
		SubscriptionID: providerSubID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get paddle subscription: %w", err)
	}

	mapped, err := fromPaddleSubscription(sub)
	if err != nil {
		return nil, err
	}
	return &mapped, nil
}

// GetPortalLink creates a Paddle customer portal session and extracts the
// overview and per-subscription action URLs.
func (p *PaddleProvider) GetPortalLink(ctx context.Context, customerID string, subscriptionIDs []string) (*PortalLink, error) {
	if customerID == "" {
		return nil, errors.New("customer ID is required")
	}

	session, err := p.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, &paddle.CreateCustomerPortalSessionRequest{
		CustomerID:      customerID,
		SubscriptionIDs: subscriptionIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle customer portal session: %w", err)
	}

	link := &PortalLink{
		URL:       session.URLs.General.Overview,
		ExpiresAt: time.Now().Add(24 * time.Hour), // Portal links typically expire in 24 hours
	}

	for _, subURL := range session.URLs.Subscriptions {
		for _, id := range subscriptionIDs {
			if subURL.ID == id {
				if subURL.CancelSubscription != "" {
					link.CancelURL = subURL.CancelSubscription
				}
				if subURL.UpdateSubscriptionPaymentMethod != "" {
					link.UpdatePaymentURL = subURL.UpdateSubscriptionPaymentMethod
				}
			}
		}
	}

	if link.URL == "" {
		return nil, errors.New("no portal URL returned from paddle")
	}
	return link, nil
}

// paddleSubscriptionWire mirrors the fields of Paddle's subscription wire
// format that the reconciler consumes. Mapping goes through JSON because the
// wire format is the stable contract; SDK struct fields have shifted between
// releases.
type paddleSubscriptionWire struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	CustomData   map[string]any `json:"custom_data"`
	BillingCycle struct {
		Interval string `json:"interval"`
	} `json:"billing_cycle"`
	CurrentBillingPeriod *struct {
		EndsAt string `json:"ends_at"`
	} `json:"current_billing_period"`
	ScheduledChange *struct {
		Action string `json:"action"`
	} `json:"scheduled_change"`
	Items []struct {
		Price struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
}

func fromPaddleSubscription(sub *paddle.Subscription) (Subscription, error) {
	raw, err := json.Marshal(sub)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to encode paddle subscription: %w", err)
	}

	var wire paddleSubscriptionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Subscription{}, fmt.Errorf("failed to decode paddle subscription: %w", err)
	}

	metadata := make(map[string]string, len(wire.CustomData))
	for k, v := range wire.CustomData {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	mapped := Subscription{
		ID:                wire.ID,
		Status:            wire.Status,
		Metadata:          metadata,
		BillingInterval:   wire.BillingCycle.Interval,
		CancelAtPeriodEnd: wire.ScheduledChange != nil && wire.ScheduledChange.Action == "cancel",
	}
	if wire.ScheduledChange != nil {
		mapped.PendingChange = wire.ScheduledChange.Action
	}

	if len(wire.Items) > 0 {
		mapped.ItemID = wire.Items[0].Price.ID
	}

	if wire.CurrentBillingPeriod != nil && wire.CurrentBillingPeriod.EndsAt != "" {
		if endsAt, parseErr := time.Parse(time.RFC3339, wire.CurrentBillingPeriod.EndsAt); parseErr == nil {
			mapped.CurrentPeriodEnd = &endsAt
		}
	}

	return mapped, nil
}

// isPendingScheduleError detects Paddle rejecting a transaction because the
// subscription already has a scheduled change queued. Paddle reports this
// through the error detail; there is no dedicated error type in the SDK.
func isPendingScheduleError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "scheduled_change") ||
		strings.Contains(msg, "scheduled change") ||
		strings.Contains(msg, "subscription schedule")
}
