package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// sessionFrom builds the caller's session from the identity headers the
// auth gateway injects upstream. An unauthenticated request yields a zero
// session, which fails every capability check downstream.
func sessionFrom(c *fiber.Ctx) domain.Session {
	return domain.Session{
		UserID: c.Get("X-User-Id"),
		Status: c.Get("X-User-Status"),
	}
}
