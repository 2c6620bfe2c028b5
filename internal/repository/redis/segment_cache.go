package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"okazjeplus/business/segmentation"
	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SegmentCache is a read-through cache in front of the durable segment
// store. Redis failures are logged and the call falls through to the store.
type SegmentCache struct {
	client Client
	next   segmentation.SegmentRepository
	ttl    time.Duration
}

var _ segmentation.SegmentRepository = (*SegmentCache)(nil)

func NewSegmentCache(client Client, next segmentation.SegmentRepository, ttl time.Duration) *SegmentCache {
	return &SegmentCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func segmentKey(userID string) string {
	// key format: "segment:user:{user_id}"
	return fmt.Sprintf("segment:user:%s", userID)
}

func (c *SegmentCache) GetSegment(ctx context.Context, userID string) (domain.UserSegment, bool, error) {
	key := segmentKey(userID)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var segment domain.UserSegment
		jsonErr := json.Unmarshal([]byte(val), &segment)
		if jsonErr == nil {
			return segment, true, nil
		}
		logger.Warn("segment_cache_decode_failed",
			"trace_id", trace.TraceIDFromContext(ctx),
			"user_id", userID,
			"error", jsonErr,
		)
		c.evict(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("segment_cache_unavailable",
			"trace_id", trace.TraceIDFromContext(ctx),
			"op", "get",
			"error", err,
		)
	}

	segment, found, err := c.next.GetSegment(ctx, userID)
	if err != nil || !found {
		return segment, found, err
	}

	c.store(ctx, key, segment)
	return segment, true, nil
}

// UpsertSegment writes the store first, then refreshes the cached copy.
func (c *SegmentCache) UpsertSegment(ctx context.Context, segment domain.UserSegment) error {
	if err := c.next.UpsertSegment(ctx, segment); err != nil {
		return err
	}

	c.store(ctx, segmentKey(segment.UserID), segment)
	return nil
}

func (c *SegmentCache) store(ctx context.Context, key string, segment domain.UserSegment) {
	raw, err := json.Marshal(segment)
	if err != nil {
		c.evict(ctx, key)
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("segment_cache_unavailable",
			"trace_id", trace.TraceIDFromContext(ctx),
			"op", "set",
			"error", err,
		)
		// a stale copy must not outlive a write
		c.evict(ctx, key)
	}
}

func (c *SegmentCache) evict(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("segment_cache_unavailable",
			"trace_id", trace.TraceIDFromContext(ctx),
			"op", "del",
			"error", err,
		)
	}
}
