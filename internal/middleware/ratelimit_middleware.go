package middleware

import (
	"context"
	"net/http"
	"strconv"

	"chatguard/internal/redis"
	"chatguard/internal/transport/httpdto"
	"chatguard/pkg/logger"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

// VerifyLimiter is satisfied by *redis.RateLimiter.
type VerifyLimiter interface {
	AllowVerify(ctx context.Context, ip string) (*redis.RateLimitResult, error)
}

// VerifyRateLimitMiddleware limits token verification attempts per client IP.
// When the limiter itself fails the request is let through and the failure is
// logged, so a redis outage does not take verification down with it.
func VerifyRateLimitMiddleware(limiter VerifyLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.AllowVerify(c.Request.Context(), c.ClientIP())
		if err != nil {
			if l != nil {
				l.WithContext(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
