package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"chatguard/internal/domain/user"
)

// Cache key pattern:
// - user:subject:{subject} - UserTTL, user resolved from a verified token subject

// CacheConfig contains configuration for caching
type CacheConfig struct {
	UserTTL time.Duration // TTL for user cache (default 5m)
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		UserTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

// NewCacheStore creates a new cache store
func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	if config.UserTTL <= 0 {
		config.UserTTL = DefaultCacheConfig().UserTTL
	}
	return &CacheStore{
		client: client,
		config: config,
	}
}

func userKey(subject string) string {
	return "user:subject:" + subject
}

// GetUser returns the cached user for subject. A miss returns (nil, nil).
func (c *CacheStore) GetUser(ctx context.Context, subject string) (*user.User, error) {
	data, err := c.client.Get(ctx, userKey(subject)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var u user.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetUser stores the user resolved for subject
func (c *CacheStore) SetUser(ctx context.Context, subject string, u user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKey(subject), data, c.config.UserTTL).Err()
}

// InvalidateUser removes a cached user
func (c *CacheStore) InvalidateUser(ctx context.Context, subject string) error {
	return c.client.Del(ctx, userKey(subject)).Err()
}
