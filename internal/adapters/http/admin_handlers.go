package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lberthe/cartomark/internal/core/domain"
)

// AdminListUsersHandler returns every registered user.
func AdminListUsersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := deps.Admin.ListUsers(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(users)
	}
}

// AdminDeleteUsersHandler removes a batch of user accounts.
func AdminDeleteUsersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		if len(ids) == 0 {
			return errBadRequest(c, "at least one user id is required")
		}
		if err := deps.Admin.DeleteUsers(c.Context(), sessionFrom(c), ids); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "users deleted", Success: true})
	}
}

// AdminListTagsHandler returns every tag for moderation.
func AdminListTagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := deps.Admin.ListTags(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(tags)
	}
}

// AdminListPlacesHandler returns every place for moderation.
func AdminListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Admin.ListPlaces(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(places)
	}
}
