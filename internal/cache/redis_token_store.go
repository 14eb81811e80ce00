package cache

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/session"
	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps the access token under the crm_token key
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, session.TokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Save stores token without expiry, an empty token removes the key
func (s *RedisTokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.rdb.Del(ctx, session.TokenKey).Err()
	}
	return s.rdb.Set(ctx, session.TokenKey, token, 0).Err()
}

var _ session.TokenStore = (*RedisTokenStore)(nil)
