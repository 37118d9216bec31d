package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/maps/public"):
			ttl = "public, max-age=60"

		case strings.Contains(path, "/markers"):
			ttl = "private, max-age=0" // compositions are per-session

		case strings.HasPrefix(path, "/v1/places/nearby"):
			ttl = "public, max-age=300" // 5 min for location queries

		case strings.HasPrefix(path, "/v1/tags"):
			ttl = "private, max-age=300" // tag pools are user-scoped

		case strings.HasPrefix(path, "/v1/admin"):
			ttl = "no-store" // moderation data never caches

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=60" // short default for user-scoped data
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
