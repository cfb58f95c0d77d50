package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore adapts redis.Client to the counterStore interface.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs an adapter.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetInt reads a counter value, treating a missing key as zero.
func (s *RedisStore) GetInt(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, nil
	}
	return count, nil
}

// IncrWithTTL increments a counter and refreshes its retention window in
// a single pipeline round trip.
func (s *RedisStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}
