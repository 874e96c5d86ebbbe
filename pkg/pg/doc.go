// Package pg provides the PostgreSQL plumbing shared by the server and the
// reconciliation job: pooled connections with startup retry, a healthcheck
// closure, goose migrations bridged to pgx, and helpers for classifying
// common Postgres error states.
package pg
