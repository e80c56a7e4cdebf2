package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on
// endpoint. Handlers that already set a header win.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != "GET" {
			return err
		}
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/services/nearby"):
			ttl = "private, max-age=0" // Per-user, persists history

		case strings.HasPrefix(path, "/v1/geocode"):
			ttl = "public, max-age=3600" // Addresses move rarely

		case strings.HasPrefix(path, "/v1/services"):
			ttl = "public, max-age=300" // 5 min for the catalogue

		case strings.HasPrefix(path, "/v1/routes") || strings.HasPrefix(path, "/v1/searches"):
			ttl = "private, max-age=0" // Per-user resources

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
