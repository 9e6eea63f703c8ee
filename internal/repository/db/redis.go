package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisOptions configures the optional Redis KV backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

const redisPingTimeout = 3 * time.Second

// InitRedis connects to Redis and fails fast if it does not answer PING.
func InitRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %q: %w", opts.Addr, err)
	}
	return client, nil
}
