// Package redis provides the Redis connection used by the optional
// entitlement counter cache: URL-based configuration, startup retry and a
// readiness check.
package redis
