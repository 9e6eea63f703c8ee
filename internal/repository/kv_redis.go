package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisCmdable is the subset of *redis.Client the KV store needs.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// KVRedis stores device keys in Redis, namespaced by prefix.
// Values never expire.
type KVRedis struct {
	client redisCmdable
	prefix string
}

func NewKVRedis(client redisCmdable, prefix string) *KVRedis {
	return &KVRedis{client: client, prefix: prefix}
}

var _ KVStore = (*KVRedis)(nil)

func (r *KVRedis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *KVRedis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}
