package transport

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "weather:archive:"

// RedisCache stores responses in Redis without a TTL.
type RedisCache struct {
	redis *redis.Client
}

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(rdb), nil
}

func NewRedisCacheFromClient(rdb *redis.Client) *RedisCache {
	return &RedisCache{redis: rdb}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, body []byte) error {
	// 0 means no expiration
	return r.redis.Set(ctx, redisKeyPrefix+key, body, 0).Err()
}

func (r *RedisCache) Close() error {
	return r.redis.Close()
}
