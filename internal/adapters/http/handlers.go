package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/core/usecases"
)

// --- Places ---

// ListPlacesHandler returns every place, paginated. Passing lat and lon
// orders the page by distance from that point instead of by name.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Places.LoadAll(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}

		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat != 0 || lon != 0 {
			places = deps.Places.SortByProximity(places, domain.GeoPoint{Lat: lat, Lon: lon})
		}

		offset, limit := ParsePagination(c, 100, 500)
		page, pg := Page(places, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// UserPlacesHandler returns the caller's own places.
func UserPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Places.LoadMine(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(places)
	}
}

// PlacesByIDHandler returns places by ampersand-joined ids.
func PlacesByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		places, err := deps.Places.GetByIDs(c.Context(), ids)
		if err != nil {
			return errDomain(c, err)
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}

// NearbyPlacesHandler returns places within a radius of a point.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 50)

		if lat == 0 || lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		places, err := deps.Places.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(places)
	}
}

// CreatePlaceHandler stores a new place.
func CreatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var place domain.Place
		if err := c.BodyParser(&place); err != nil {
			return errBadRequest(c, "invalid place payload")
		}
		created, err := deps.Places.Create(c.Context(), sessionFrom(c), place)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdatePlaceHandler rewrites an existing place.
func UpdatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var place domain.Place
		if err := c.BodyParser(&place); err != nil {
			return errBadRequest(c, "invalid place payload")
		}
		if place.ID == "" {
			return errBadRequest(c, "place id is required")
		}
		if err := deps.Places.Update(c.Context(), sessionFrom(c), place); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "place updated", Success: true})
	}
}

// DeletePlaceHandler removes one place and sweeps its iterations. Owners
// delete their own places; admins may delete any.
func DeletePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "place id is required")
		}
		if err := deps.Places.Delete(c.Context(), sessionFrom(c), id); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "place deleted", Success: true})
	}
}

// DeletePlacesHandler removes a batch of places.
func DeletePlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		if len(ids) == 0 {
			return errBadRequest(c, "at least one place id is required")
		}
		if err := deps.Admin.DeletePlaces(c.Context(), sessionFrom(c), ids); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "places deleted", Success: true})
	}
}

// --- Tags ---

// UserTagsHandler returns the official tags plus the caller's own,
// optionally narrowed by name and capped to the preview window.
func UserTagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := deps.Tags.LoadForUser(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		if q := c.Query("name"); q != "" || c.QueryBool("preview", false) {
			limit := 0
			if c.QueryBool("preview", false) {
				limit = deps.TagPreviewLimit
			}
			tags = deps.Tags.Subtract(tags, nil, q, limit)
		}
		return c.JSON(tags)
	}
}

// TagsByIDHandler returns tags by ampersand-joined ids.
func TagsByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		tags, err := deps.Tags.GetByIDs(c.Context(), ids)
		if err != nil {
			return errDomain(c, err)
		}
		if tags == nil {
			tags = []domain.Tag{}
		}
		return c.JSON(tags)
	}
}

// SuggestTagsHandler ranks the catalog against an already-selected tag set.
func SuggestTagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := sessionFrom(c)
		pool, err := deps.Tags.LoadForUser(c.Context(), session)
		if err != nil {
			return errDomain(c, err)
		}

		selectedIDs := splitIDs(c.Query("selected"))
		selected, err := deps.Tags.GetByIDs(c.Context(), selectedIDs)
		if err != nil {
			return errDomain(c, err)
		}

		limit := c.QueryInt("limit", deps.TagPreviewLimit)
		if limit < 0 {
			limit = 0
		}
		return c.JSON(deps.Tags.SuggestByAffinity(selected, pool, limit))
	}
}

// CreateTagHandler stores a new tag.
func CreateTagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tag domain.Tag
		if err := c.BodyParser(&tag); err != nil {
			return errBadRequest(c, "invalid tag payload")
		}
		created, err := deps.Tags.Create(c.Context(), sessionFrom(c), tag)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdateTagHandler rewrites an existing tag.
func UpdateTagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tag domain.Tag
		if err := c.BodyParser(&tag); err != nil {
			return errBadRequest(c, "invalid tag payload")
		}
		if tag.ID == "" {
			return errBadRequest(c, "tag id is required")
		}
		if err := deps.Tags.Update(c.Context(), sessionFrom(c), tag); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "tag updated", Success: true})
	}
}

// DeleteTagHandler removes one tag.
func DeleteTagHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tag id is required")
		}
		if err := deps.Tags.Delete(c.Context(), sessionFrom(c), id); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "tag deleted", Success: true})
	}
}

// DeleteTagsHandler removes a batch of tags.
func DeleteTagsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		if len(ids) == 0 {
			return errBadRequest(c, "at least one tag id is required")
		}
		if err := deps.Tags.DeleteMany(c.Context(), sessionFrom(c), ids); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "tags deleted", Success: true})
	}
}

// --- Place iterations ---

// IterationsByIDHandler returns iterations by ampersand-joined ids. An empty
// segment returns an empty list without touching storage.
func IterationsByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		its, err := deps.Iterations.GetByIDs(c.Context(), ids)
		if err != nil {
			return errDomain(c, err)
		}
		if its == nil {
			its = []domain.Iteration{}
		}
		return c.JSON(its)
	}
}

// UserIterationsHandler returns the caller's own iterations.
func UserIterationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		its, err := deps.Iterations.ListByCreator(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(its)
	}
}

// CreateIterationHandler stores a new iteration.
func CreateIterationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it domain.Iteration
		if err := c.BodyParser(&it); err != nil {
			return errBadRequest(c, "invalid iteration payload")
		}
		created, err := deps.Iterations.Create(c.Context(), sessionFrom(c), it)
		if err != nil {
			return errDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdateIterationHandler rewrites an existing iteration.
func UpdateIterationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it domain.Iteration
		if err := c.BodyParser(&it); err != nil {
			return errBadRequest(c, "invalid iteration payload")
		}
		if it.ID == "" {
			return errBadRequest(c, "iteration id is required")
		}
		if err := deps.Iterations.Update(c.Context(), sessionFrom(c), it); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "iteration updated", Success: true})
	}
}

// DeleteIterationHandler removes one iteration.
func DeleteIterationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "iteration id is required")
		}
		if err := deps.Iterations.Delete(c.Context(), sessionFrom(c), id); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "iteration deleted", Success: true})
	}
}

// markerQueryFrom reads the filter criteria off the request.
func markerQueryFrom(c *fiber.Ctx) usecases.MarkerQuery {
	q := usecases.MarkerQuery{
		Name: c.Query("name"),
	}
	if args := c.Context().QueryArgs().PeekMulti("tags"); len(args) > 0 {
		for _, a := range args {
			if len(a) > 0 {
				q.Tags = append(q.Tags, string(a))
			}
		}
	}
	return q
}
