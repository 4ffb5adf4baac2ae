package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "portal:session"

// RedisBackend stores sessions as plain string values with a TTL.
type RedisBackend struct {
	client redis.UniversalClient
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) key(id string) string { return redisNamespace + ":" + id }

func (r *RedisBackend) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisBackend) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(id), data, ttl).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
