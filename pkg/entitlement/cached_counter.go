package entitlement

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/providerdir/providerdir/pkg/plan"
)

// CachedCounter wraps a ResourceCounterFunc with a short-lived Redis cache.
// Counters run on every creation attempt and dashboard render; a few seconds
// of staleness is fine because limits are only enforced at creation time and
// the check is read-then-act anyway.
//
// Cache failures fall through to the underlying counter, so Redis being down
// degrades latency, not correctness.
func CachedCounter(client *redis.Client, resource plan.Resource, ttl time.Duration, fn ResourceCounterFunc) ResourceCounterFunc {
	if client == nil || fn == nil {
		return fn
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		key := "entitlement:count:" + string(resource) + ":" + tenantID.String()

		if cached, err := client.Get(ctx, key).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}

		count, err := fn(ctx, tenantID)
		if err != nil {
			return 0, err
		}

		// Best effort; a failed SET just means the next call recounts.
		client.Set(ctx, key, strconv.FormatInt(count, 10), ttl)

		return count, nil
	}
}
