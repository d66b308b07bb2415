package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set
// their own. Route drafts are per user and change on every edit, so they
// are never stored.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.GetRespHeader("Cache-Control") != "" {
			return err
		}

		path := c.Path()
		var ttl string
		switch {
		case path == "/v1/health" || path == "/v1/ready" || path == "/metrics":
			ttl = "no-cache"
		case strings.Contains(path, "/routes/"):
			ttl = "no-store"
		case strings.HasPrefix(path, "/v1/drivers"):
			ttl = "private, max-age=60"
		case path == "/v1/menus":
			ttl = "private, max-age=300"
		case path == "/v1/orders" || strings.HasPrefix(path, "/v1/orders/"):
			ttl = "private, max-age=0"
		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}
		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}
		return err
	}
}
