package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitResult(t *testing.T) {
	res, err := parseLimitResult([]interface{}{int64(1), int64(4), int64(60)}, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 60*time.Second, res.ResetIn)
	assert.Equal(t, 5, res.Limit)

	res, err = parseLimitResult([]interface{}{int64(0), int64(0), int64(12)}, 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 12*time.Second, res.ResetIn)
}

func TestParseLimitResult_BadShape(t *testing.T) {
	_, err := parseLimitResult("nope", 5)
	assert.Error(t, err)

	_, err = parseLimitResult([]interface{}{int64(1)}, 5)
	assert.Error(t, err)

	_, err = parseLimitResult([]interface{}{"1", int64(0), int64(1)}, 5)
	assert.Error(t, err)
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:subject:alice@example.com", userKey("alice@example.com"))
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(nil, RateLimitConfig{})
	assert.Equal(t, DefaultRateLimitConfig(), r.config)

	r = NewRateLimiter(nil, RateLimitConfig{VerifyLimit: 3, VerifyWindow: 500 * time.Millisecond})
	assert.Equal(t, 3, r.config.VerifyLimit)
	assert.Equal(t, DefaultRateLimitConfig().VerifyWindow, r.config.VerifyWindow)

	r = NewRateLimiter(nil, RateLimitConfig{VerifyLimit: 3, VerifyWindow: 10 * time.Second})
	assert.Equal(t, RateLimitConfig{VerifyLimit: 3, VerifyWindow: 10 * time.Second}, r.config)
}

func TestNewCacheStore_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultCacheConfig().UserTTL, NewCacheStore(nil, CacheConfig{}).config.UserTTL)
	assert.Equal(t, time.Minute, NewCacheStore(nil, CacheConfig{UserTTL: time.Minute}).config.UserTTL)
}
