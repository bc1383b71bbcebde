package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	chatguard_errors "chatguard/pkg/errors"
)

type Config struct {
	AppPort string
	AppMode string
	LogMode string

	JWTSecret     string
	JWTAlgorithms []string
	JWTClockSkew  time.Duration
	SessionCookie string

	DatabaseURL string
	DBMaxConns  int32

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	VerifyRateLimit  int
	VerifyRateWindow time.Duration
	UserCacheTTL     time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		AppMode:          getEnv("APP_MODE", "debug"),
		LogMode:          getEnv("LOG_MODE", "development"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAlgorithms:    getEnvAsList("JWT_ALGORITHMS", []string{"HS256"}),
		JWTClockSkew:     getEnvAsDuration("JWT_CLOCK_SKEW", 0),
		SessionCookie:    getEnv("SESSION_COOKIE", "session-token"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBMaxConns:       int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		VerifyRateLimit:  getEnvAsInt("VERIFY_RATE_LIMIT", 30),
		VerifyRateWindow: getEnvAsDuration("VERIFY_RATE_WINDOW", time.Minute),
		UserCacheTTL:     getEnvAsDuration("USER_CACHE_TTL", 5*time.Minute),
	}
}

// Validate reports configuration that must stop the process before it
// starts serving.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", chatguard_errors.ErrInvalidConfig)
	}
	if len(c.JWTAlgorithms) == 0 {
		return fmt.Errorf("%w: JWT_ALGORITHMS is empty", chatguard_errors.ErrInvalidConfig)
	}
	if c.JWTClockSkew < 0 {
		return fmt.Errorf("%w: JWT_CLOCK_SKEW must not be negative", chatguard_errors.ErrInvalidConfig)
	}
	if c.RedisAddr != "" && (c.VerifyRateLimit <= 0 || c.VerifyRateWindow < time.Second) {
		return fmt.Errorf("%w: verify rate limit needs a positive limit and a window of at least 1s", chatguard_errors.ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s", "2m") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
