package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/forecastapp/api/pkg/response"
)

// RateLimiter is a per-user fixed-window limiter backed by Redis.
// A limiter without a Redis client lets every request through.
type RateLimiter struct {
	redis  *redis.Client
	logger zerolog.Logger
}

func NewRateLimiter(redisClient *redis.Client, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{redis: redisClient, logger: logger}
}

// Limit creates a rate limiting middleware
func (rl *RateLimiter) Limit(keyPrefix string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.redis == nil || maxRequests <= 0 {
			return c.Next()
		}

		userID := GetUserID(c)
		if userID == "" {
			return c.Next() // auth middleware runs first and rejects anonymous callers
		}

		key := fmt.Sprintf("ratelimit:%s:%s", keyPrefix, userID)
		ctx := c.UserContext()

		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
			return c.Next()
		}

		// Set expiration on first request
		if count == 1 {
			rl.redis.Expire(ctx, key, window)
		}

		if count > int64(maxRequests) {
			ttl, _ := rl.redis.TTL(ctx, key).Result()
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(ttl.Seconds())))
			return response.RateLimited(c)
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequests-int(count)))

		return c.Next()
	}
}

// UploadLimit returns a rate limiter for upload endpoints
func (rl *RateLimiter) UploadLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("upload", maxPerHour, time.Hour)
}

// ForecastLimit returns a rate limiter for forecast endpoints
func (rl *RateLimiter) ForecastLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("forecast", maxPerHour, time.Hour)
}
