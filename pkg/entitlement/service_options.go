package entitlement

import "github.com/providerdir/providerdir/pkg/plan"

// ServiceOption configures a Service instance.
type ServiceOption func(*service)

// WithCounter registers a counter function for a specific resource.
// Panics if a counter for the same resource has already been registered to
// prevent accidental overwrites.
func WithCounter(resource plan.Resource, fn ResourceCounterFunc) ServiceOption {
	return func(s *service) {
		if fn == nil {
			return
		}
		if _, exists := s.counters[resource]; exists {
			panic("entitlement: counter for resource " + string(resource) + " already registered")
		}
		s.counters[resource] = fn
	}
}
