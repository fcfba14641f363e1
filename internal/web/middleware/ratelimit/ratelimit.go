// Package ratelimit throttles the blog generation routes per user.
package ratelimit

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
)

// Limiter decides whether one more request for key fits into the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// New returns a middleware answering 429 once the user is over the limit.
// A nil limiter lets everything through.
func New(limiter Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		key := "ip:" + c.IP()
		if u := handler.CurrentUser(c); u != nil {
			key = "user:" + strconv.FormatUint(u.ID, 10)
		}

		if limiter.Allow(c.UserContext(), key) {
			return c.Next()
		}

		log.Warn().Str("key", key).Str("path", c.Path()).Msg("generation rate limit exceeded")

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}

		return c.Status(fiber.StatusTooManyRequests).SendString("Too many generation requests, please wait a minute")
	}
}
