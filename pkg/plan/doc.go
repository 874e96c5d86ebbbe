// Package plan defines the subscription tiers offered by the directory and
// the static catalog mapping each tier to pricing, resource limits and
// feature flags.
//
// The catalog is an immutable value constructed once at startup, either from
// the built-in defaults or from a YAML file. It is injected into the
// entitlement evaluator and the billing handlers instead of living in a
// global table, which keeps tests free to use alternate tier definitions.
//
// Lookups are total: asking for an unknown tier returns the free config, so
// anything gating a paid feature fails closed on malformed data.
package plan
