package cache

import (
	"context"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/service"
	"github.com/redis/go-redis/v9"
)

const submitKeyPrefix = "pos:submit:"

// RedisSubmissionGuard shares the in-flight marker between instances.
// The TTL bounds how long a crashed holder can block a draft.
type RedisSubmissionGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSubmissionGuard(rdb *redis.Client, ttl time.Duration) *RedisSubmissionGuard {
	return &RedisSubmissionGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisSubmissionGuard) TryAcquire(ctx context.Context, key string) (bool, error) {
	return g.rdb.SetNX(ctx, submitKeyPrefix+key, "1", g.ttl).Result()
}

func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, submitKeyPrefix+key).Err()
}

var _ service.InFlightGuard = (*RedisSubmissionGuard)(nil)
