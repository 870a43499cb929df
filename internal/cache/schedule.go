// Package cache caches each owner's computed schedule in Redis, grounded
// on the teacher's redis key-and-TTL style (shared/auth/password_reset.go):
// a namespaced key per owner, JSON-encoded value, explicit TTL, and an
// invalidation Del on every write that could change the result.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satu-n/sprig/internal/scheduler"
)

// ttl is how long a cached schedule is trusted before a fresh computation
// is required regardless of invalidation.
const ttl = 10 * time.Minute

// ScheduleCache caches scheduler.Result slices per owner.
type ScheduleCache struct {
	rdb *redis.Client
}

// New wraps an existing Redis client.
func New(rdb *redis.Client) *ScheduleCache {
	return &ScheduleCache{rdb: rdb}
}

func key(owner int64) string {
	return fmt.Sprintf("schedule:%d", owner)
}

// Get returns the cached results for owner, or ok=false on miss.
func (c *ScheduleCache) Get(ctx context.Context, owner int64) ([]scheduler.Result, bool) {
	raw, err := c.rdb.Get(ctx, key(owner)).Bytes()
	if err != nil {
		return nil, false
	}
	var results []scheduler.Result
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

// Set stores results for owner with the package TTL.
func (c *ScheduleCache) Set(ctx context.Context, owner int64, results []scheduler.Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(owner), raw, ttl).Err()
}

// Invalidate drops owner's cached schedule; called after any upsert that
// could change it.
func (c *ScheduleCache) Invalidate(ctx context.Context, owner int64) error {
	return c.rdb.Del(ctx, key(owner)).Err()
}
