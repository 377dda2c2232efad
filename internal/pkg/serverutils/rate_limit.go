package serverutils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware is a fixed-window limiter backed by redis so that the
// quota holds across instances. Keys expire with the window; no in-process
// state or cleanup timer.
func RateLimitMiddleware(rdb *redis.Client, prefix string, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if rdb == nil {
			return ctx.Next()
		}

		id, _ := ctx.Locals("user_id").(string)
		if id == "" {
			id = ctx.IP()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", prefix, id)

		count, err := rdb.Incr(ctx.Context(), key).Result()
		if err != nil {
			// Redis being down must not take the endpoint down with it.
			return ctx.Next()
		}
		if count == 1 {
			rdb.Expire(ctx.Context(), key, window)
		}

		if count > int64(limit) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(
				ErrorResponse(fiber.StatusTooManyRequests, "too many requests, slow down"))
		}

		return ctx.Next()
	}
}
