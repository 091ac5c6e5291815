package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/RYAHE/Ruche-RS/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// Advisory messages returned with a 429 when a credential endpoint is throttled.
const (
	LoginLimitMessage    = "Too many login attempts. Please try again in 15 minutes."
	RegisterLimitMessage = "Too many registration attempts. Please try again in 1 hour."
)

// CheckRateLimit checks if a resource has exceeded its rate limit.
// Returns true if allowed, false if limit exceeded.
// Rate limiting is disabled when APP_ENV is "test" or "development" so dev
// and test workflows are not throttled.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	switch env {
	case "test", "development":
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	if cnt > int64(limit) {
		return false, nil
	}
	return true, nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`
// for the named resource, keyed by client address. The advisory message is
// returned verbatim with a 429 when the limit is exceeded. The middleware
// fails open when Redis is unavailable.
func RateLimit(rdb *redis.Client, resource string, limit int, window time.Duration, message string) fiber.Handler {
	return RateLimitWithPolicy(rdb, resource, limit, window, message, FailOpen)
}

// RateLimitWithPolicy returns a rate limiting middleware with a specific failure policy.
func RateLimitWithPolicy(rdb *redis.Client, resource string, limit int, window time.Duration, message string, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := fmt.Sprintf("ip:%s", c.IP())

		allowed, err := CheckRateLimit(context.Background(), rdb, resource, id, limit, window)
		if err != nil {
			observability.RedisErrorRate.WithLabelValues("rate_limit").Inc()
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					"resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"message": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(resource).Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": message,
			})
		}
		return c.Next()
	}
}
