package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore keeps every value as a plain redis string with no expiry.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore accepts either a redis:// URL or a bare host:port.
func NewRedisStore(addr string, logger *zap.Logger) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	return &RedisStore{client: redis.NewClient(opts), logger: logger}
}

// WaitReady pings until redis answers, backing off exponentially up to
// maxBackoff between attempts.
func (r *RedisStore) WaitReady(ctx context.Context, attempts int, maxBackoff time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = r.Ping(ctx); err == nil {
			return nil
		}

		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		r.logger.Warn("redis not ready",
			zap.Int("attempt", i+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not ready after %d attempts: %w", attempts, err)
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
