package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/providerdir/providerdir/pkg/billing"
	"github.com/providerdir/providerdir/pkg/entitlement"
	"github.com/providerdir/providerdir/pkg/logger"
	"github.com/providerdir/providerdir/pkg/plan"
)

// Handler serves the billing surface of the agency dashboard.
type Handler struct {
	checkout     *billing.Checkout
	summaries    *billing.SummaryService
	entitlements entitlement.Service
	catalog      plan.Catalog
	resolve      TenantResolver
	log          *slog.Logger
}

// NewHandler creates the dashboard billing handler. Panics on nil
// dependencies to fail fast during startup wiring.
func NewHandler(checkout *billing.Checkout, summaries *billing.SummaryService, entitlements entitlement.Service, catalog plan.Catalog, resolve TenantResolver, log *slog.Logger) *Handler {
	if checkout == nil || summaries == nil || entitlements == nil || resolve == nil {
		panic("dashboard: checkout, summaries, entitlements and resolver are required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		checkout:     checkout,
		summaries:    summaries,
		entitlements: entitlements,
		catalog:      catalog,
		resolve:      resolve,
		log:          log,
	}
}

type planView struct {
	Tier        plan.Tier      `json:"tier"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	Pricing     plan.Pricing   `json:"pricing"`
	Features    []plan.Feature `json:"features"`
	Highlights  []string       `json:"highlights"`
}

// Plans returns the public plan catalog.
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	views := make([]planView, 0, 3)
	for _, tier := range plan.Tiers() {
		cfg := h.catalog.Config(tier)
		views = append(views, planView{
			Tier:        tier,
			DisplayName: cfg.DisplayName,
			Description: cfg.Description,
			Pricing:     cfg.Pricing,
			Features:    cfg.Features,
			Highlights:  cfg.Highlights,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": views})
}

// Checkout starts a checkout session for the authenticated tenant and
// redirects to the provider's hosted page. The client follows the redirect
// with a full navigation; nothing client-side survives the hop.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	tenantID, email, err := h.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	session, err := h.checkout.Start(r.Context(), billing.CheckoutParams{
		TenantID: tenantID,
		Email:    email,
		Plan:     r.URL.Query().Get("plan"),
		Interval: r.URL.Query().Get("interval"),
		ReturnTo: r.URL.Query().Get("return_to"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, session.URL, http.StatusSeeOther)
	case errors.Is(err, billing.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, "Invalid plan selected")
	case errors.Is(err, billing.ErrPendingScheduleChange):
		writeError(w, http.StatusConflict,
			"Your subscription has a pending plan change scheduled. Cancel the pending change before selecting a new plan.")
	default:
		h.log.ErrorContext(r.Context(), "checkout session creation failed",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to create checkout session")
	}
}

// FeaturedCheckout starts a checkout session for the featured-location
// add-on and redirects to the provider's hosted page. Only tenants on a paid
// plan can feature a location, and only one they own that is not already
// featured.
func (h *Handler) FeaturedCheckout(w http.ResponseWriter, r *http.Request) {
	tenantID, email, err := h.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ctx := r.Context()

	locationID, err := uuid.Parse(r.URL.Query().Get("location_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location")
		return
	}

	tier, err := h.entitlements.EffectiveTier(ctx, tenantID)
	if err != nil {
		if errors.Is(err, entitlement.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.ErrorContext(ctx, "failed to resolve effective tier",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load entitlements")
		return
	}

	session, err := h.checkout.StartFeatured(ctx, billing.FeaturedCheckoutParams{
		TenantID:   tenantID,
		Email:      email,
		Tier:       tier,
		LocationID: locationID,
		Interval:   r.URL.Query().Get("interval"),
	})
	switch {
	case err == nil:
		http.Redirect(w, r, session.URL, http.StatusSeeOther)
	case errors.Is(err, billing.ErrFeaturedRequiresPaid):
		writeError(w, http.StatusForbidden, "Featured upgrade requires Pro or Enterprise plan")
	case errors.Is(err, billing.ErrLocationNotFound):
		writeError(w, http.StatusNotFound, "Location not found")
	case errors.Is(err, billing.ErrNotLocationOwner):
		writeError(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, billing.ErrAlreadyFeatured):
		writeError(w, http.StatusConflict, "Location is already featured")
	default:
		h.log.ErrorContext(ctx, "featured checkout session creation failed",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to create checkout session")
	}
}

type usageView struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"` // -1 means unlimited
}

// Entitlements returns the tenant's effective tier, usage against limits and
// enabled features, for rendering the billing page.
func (h *Handler) Entitlements(w http.ResponseWriter, r *http.Request) {
	tenantID, _, err := h.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ctx := r.Context()

	tier, err := h.entitlements.EffectiveTier(ctx, tenantID)
	if err != nil {
		if errors.Is(err, entitlement.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.ErrorContext(ctx, "failed to resolve effective tier",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load entitlements")
		return
	}

	usage := make(map[plan.Resource]usageView, 2)
	for _, resource := range []plan.Resource{plan.ResourceLocations, plan.ResourceJobPostings} {
		used, limit := h.entitlements.GetUsageSafe(ctx, tenantID, resource)
		usage[resource] = usageView{Used: used, Limit: limit}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"effective_tier":     tier,
		"features":           h.catalog.Config(tier).Features,
		"usage":              usage,
		"upgrade_candidates": plan.UpgradeCandidates(tier),
	})
}

// Subscription returns the tenant's provider subscription summary, including
// any pending scheduled change so the UI can warn about a queued downgrade.
// With ?plan= (and optional ?interval=) the summary also classifies the
// proposed change, so the plan picker can say whether it applies immediately
// or is queued for the period end.
func (h *Handler) Subscription(w http.ResponseWriter, r *http.Request) {
	tenantID, _, err := h.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ctx := r.Context()

	summary, err := h.summaries.Summary(ctx, tenantID)
	switch {
	case err == nil:
		if target := r.URL.Query().Get("plan"); target != "" {
			targetInterval := r.URL.Query().Get("interval")
			if targetInterval == "" {
				targetInterval = summary.BillingInterval
			}
			if tier, terr := h.entitlements.EffectiveTier(ctx, tenantID); terr == nil {
				summary.ChangeKind = billing.ClassifyChange(
					tier, plan.Tier(target),
					billing.ParseInterval(summary.BillingInterval),
					billing.ParseInterval(targetInterval),
				)
			}
		}
		writeJSON(w, http.StatusOK, summary)
	case errors.Is(err, billing.ErrNoSubscription):
		writeJSON(w, http.StatusOK, map[string]any{"subscription_id": "", "status": "none"})
	case errors.Is(err, billing.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	default:
		h.log.ErrorContext(ctx, "failed to load subscription summary",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to load subscription")
	}
}

// Portal redirects the tenant to the provider-hosted customer portal, where
// payment methods are updated and pending plan changes are released.
func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	tenantID, _, err := h.resolve(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ctx := r.Context()

	link, err := h.summaries.PortalLink(ctx, tenantID)
	switch {
	case err == nil:
		http.Redirect(w, r, link.URL, http.StatusSeeOther)
	case errors.Is(err, billing.ErrNoSubscription):
		writeError(w, http.StatusNotFound, "No billing account to manage")
	case errors.Is(err, billing.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	default:
		h.log.ErrorContext(ctx, "failed to create portal session",
			logger.TenantID(tenantID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to open billing portal")
	}
}
