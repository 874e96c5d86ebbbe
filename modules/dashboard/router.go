package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// TenantResolver extracts the authenticated tenant from a request.
// Authentication itself is owned by the edge (session middleware, reverse
// proxy); this module only needs the resulting identity.
type TenantResolver func(r *http.Request) (tenantID uuid.UUID, email string, err error)

// Router mounts the billing endpoints:
//
//	GET /plans             — public plan catalog with upgrade candidates
//	GET /checkout          — start a checkout session and redirect to it
//	GET /featured/checkout — buy the featured add-on for an owned location
//	GET /entitlements      — effective tier, usage and features for the dashboard
//	GET /subscription      — provider subscription summary with pending changes
//	GET /portal            — redirect to the provider-hosted customer portal
func Router(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/plans", h.Plans)
	r.Get("/checkout", h.Checkout)
	r.Get("/featured/checkout", h.FeaturedCheckout)
	r.Get("/entitlements", h.Entitlements)
	r.Get("/subscription", h.Subscription)
	r.Get("/portal", h.Portal)

	return r
}
