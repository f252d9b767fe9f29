// Package cache keeps short-lived copies of read-mostly lists. The personnel list is the main
// tenant: it is loaded whole for every view and invalidated on every write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Key names shared by the services
const (
	KeyPersonnelList   = "mapa:personnel:list"
	KeyInstitutionList = "mapa:institutions:list"
)

// Cache stores JSON-encoded values by key
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Options configure the redis backed cache
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to redis and verifies the connection with a ping
func New(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	logger.Info().Str("addr", opts.Addr).Dur("ttl", opts.TTL).Msg("Redis cache connected")
	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

// RedisCache is a Cache on top of go-redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete implements Cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Close implements Cache
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop is the Cache used when caching is disabled. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Delete(context.Context, ...string) error        { return nil }
func (Noop) Close() error                                   { return nil }
