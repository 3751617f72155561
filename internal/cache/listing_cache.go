package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/joshua-takyi/estate/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "estate:listing:"

// StaleWindow is how long an invalidated id refuses new entries. A read that
// loaded the listing before the write may still be filling the cache.
const StaleWindow = 10 * time.Second

// ListingCache keeps single listings close to the API. Failures are never
// fatal: a broken cache behaves like an empty one. Set is a no-op for ids
// invalidated within StaleWindow.
type ListingCache interface {
	Get(ctx context.Context, id string) (*models.Listing, bool)
	Set(ctx context.Context, listing *models.Listing)
	Invalidate(ctx context.Context, ids ...string)
}

type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisListingCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisListingCache{client: client, ttl: ttl, logger: logger}
}

func Key(id string) string {
	return keyPrefix + id
}

func staleKey(id string) string {
	return keyPrefix + id + ":stale"
}

func (c *RedisListingCache) Get(ctx context.Context, id string) (*models.Listing, bool) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("listing cache read failed", "listing_id", id, "error", err)
		}
		return nil, false
	}

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		c.logger.Warn("listing cache entry corrupt", "listing_id", id, "error", err)
		return nil, false
	}
	return &listing, true
}

func (c *RedisListingCache) Set(ctx context.Context, listing *models.Listing) {
	data, err := json.Marshal(listing)
	if err != nil {
		return
	}
	id := listing.ID.Hex()
	guard := staleKey(id)

	// WATCH the marker so an Invalidate racing this write aborts it
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, guard).Result()
		if err != nil || n > 0 {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(id), data, c.ttl)
			return nil
		})
		return err
	}, guard)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("listing cache write skipped, invalidated concurrently", "listing_id", id)
	case err != nil:
		c.logger.Warn("listing cache write failed", "listing_id", id, "error", err)
	}
}

func (c *RedisListingCache) Invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Set(ctx, staleKey(id), 1, StaleWindow)
			pipe.Del(ctx, Key(id))
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("listing cache invalidate failed", "listing_ids", ids, "error", err)
	}
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Listing, bool) { return nil, false }
func (Noop) Set(context.Context, *models.Listing) {}
func (Noop) Invalidate(context.Context, ...string) {}
