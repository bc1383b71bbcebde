package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatguard_errors "chatguard/pkg/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s1")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, []string{"HS256"}, cfg.JWTAlgorithms)
	assert.Equal(t, time.Duration(0), cfg.JWTClockSkew)
	assert.Equal(t, "session-token", cfg.SessionCookie)
	assert.Equal(t, time.Minute, cfg.VerifyRateWindow)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s1")
	t.Setenv("JWT_ALGORITHMS", " HS256, HS512 ,,")
	t.Setenv("JWT_CLOCK_SKEW", "30")
	t.Setenv("USER_CACHE_TTL", "90s")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg := LoadConfig()

	assert.Equal(t, []string{"HS256", "HS512"}, cfg.JWTAlgorithms)
	assert.Equal(t, 30*time.Second, cfg.JWTClockSkew)
	assert.Equal(t, 90*time.Second, cfg.UserCacheTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
}

func TestLoadConfig_BadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_CLOCK_SKEW", "soon")

	cfg := LoadConfig()

	assert.Equal(t, time.Duration(0), cfg.JWTClockSkew)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:        "s1",
			JWTAlgorithms:    []string{"HS256"},
			VerifyRateLimit:  10,
			VerifyRateWindow: time.Minute,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.JWTSecret = "  " }},
		{"no algorithms", func(c *Config) { c.JWTAlgorithms = nil }},
		{"negative skew", func(c *Config) { c.JWTClockSkew = -time.Second }},
		{"rate limit without window", func(c *Config) {
			c.RedisAddr = "localhost:6379"
			c.VerifyRateWindow = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), chatguard_errors.ErrInvalidConfig)
		})
	}

	assert.NoError(t, base().Validate())
}
