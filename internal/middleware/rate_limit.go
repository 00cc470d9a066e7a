package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	Prefix string
	Limit  int64
	Period time.Duration
}

// RateLimiter counts requests per client IP in redis using a fixed window.
// A nil client disables limiting; a redis failure lets the request through.
func RateLimiter(rdb *redis.Client, cfg RateLimitConfig, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		key := cfg.Prefix + ":" + c.IP()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limiter unavailable", "error", err)
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(ctx, key, cfg.Period)
		}

		if count > cfg.Limit {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(cfg.Period.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}
