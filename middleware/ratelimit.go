package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// GenerateRateLimitKey creates a unique key for rate limiting
func GenerateRateLimitKey(ip, path string) string {
	return fmt.Sprintf("rl:login:%s:%s", ip, path)
}

// LoginLimiter throttles credential submissions per client IP and path.
// GET requests for the login forms pass through untouched.
func LoginLimiter(max int, storage fiber.Storage, limitReached fiber.Handler) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return GenerateRateLimitKey(c.IP(), c.Path())
		},
		LimitReached: limitReached,
		Storage:      storage,
	})
}
