package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed-window counter limiter shared across instances.
// One INCR per request; the key expires with the window, so Redis cleans
// up after itself.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisStore(rdb *redis.Client, limit int, window time.Duration) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: "giveaway:ratelimit",
		limit:  limit,
		window: window,
	}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	bucket := time.Now().Unix() / int64(s.window.Seconds())
	redisKey := fmt.Sprintf("%s:%s:%d", s.prefix, key, bucket)

	pipe := s.rdb.Pipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	if count.Val() > int64(s.limit) {
		return Decision{Allowed: false, RetryAfter: s.window}, nil
	}
	return Decision{Allowed: true}, nil
}
