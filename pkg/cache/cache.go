package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLTopPicks = 1 * time.Minute
	TTLDefault  = 5 * time.Minute
)

// Key prefixes
const (
	PrefixTopPicks = "toppicks:"
	PrefixRevoked  = "revoked:"
)

// ErrUnavailable is returned by reads when no redis client is configured
var ErrUnavailable = errors.New("redis not available")

// Service is a redis backed JSON cache. All writes are no-ops without a client.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Leaderboard
	GetTopPicks(ctx context.Context, variant string, dest interface{}) error
	SetTopPicks(ctx context.Context, variant string, data interface{}) error
	InvalidateTopPicks(ctx context.Context) error

	// Refresh token revocation
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service. client may be nil.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrUnavailable
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Leaderboard
// ========================================

func (c *redisCache) topPicksKey(variant string) string {
	if variant == "" {
		return PrefixTopPicks + "default"
	}
	return PrefixTopPicks + variant
}

func (c *redisCache) GetTopPicks(ctx context.Context, variant string, dest interface{}) error {
	return c.Get(ctx, c.topPicksKey(variant), dest)
}

func (c *redisCache) SetTopPicks(ctx context.Context, variant string, data interface{}) error {
	return c.Set(ctx, c.topPicksKey(variant), data, TTLTopPicks)
}

func (c *redisCache) InvalidateTopPicks(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixTopPicks+"*")
}

// ========================================
// Token revocation
// ========================================

func (c *redisCache) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if c.client == nil || tokenID == "" {
		return nil
	}
	return c.client.Set(ctx, PrefixRevoked+tokenID, "1", ttl).Err()
}

func (c *redisCache) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return c.Exists(ctx, PrefixRevoked+tokenID)
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
