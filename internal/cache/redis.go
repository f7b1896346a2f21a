package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trogers1052/portfolio-service/internal/config"
)

// RedisStore backs the Store interface with a Redis server, matching
// the original deployment's setEx/get usage.
type RedisStore struct {
	client *redis.Client
}

// NewRedis creates a RedisStore from configuration.
func NewRedis(cfg config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client}
}

// Ping verifies connectivity at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Get reads key and unmarshals its JSON value into dest.
func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		// A corrupt value is treated as a miss, not a failure.
		log.Printf("cache: discarding unparseable value for key %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Set writes value under key as JSON text with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
