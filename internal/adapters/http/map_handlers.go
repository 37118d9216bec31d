package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lberthe/cartomark/internal/core/domain"
	"github.com/lberthe/cartomark/internal/pkg/geospatial"
	"github.com/lberthe/cartomark/internal/pkg/metrics"
)

// saveMapRequest carries a map plus the editor's pending overlay.
type saveMapRequest struct {
	Map        domain.Map         `json:"map"`
	Iterations []domain.Iteration `json:"iterations"`
}

// markersResponse is the composed, filtered marker set with a suggested
// viewport center.
type markersResponse struct {
	Markers []domain.Marker `json:"markers"`
	Center  domain.GeoPoint `json:"center"`
}

// SaveMapHandler creates or updates a map together with its overlay.
func SaveMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveMapRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid map payload")
		}
		saved, err := deps.Maps.Save(c.Context(), sessionFrom(c), req.Map, req.Iterations)
		if err != nil {
			return errDomain(c, err)
		}
		status := fiber.StatusOK
		if req.Map.ID == "" {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(saved)
	}
}

// MapsByIDHandler returns maps by ampersand-joined ids, dropping the ones
// the caller may not view.
func MapsByIDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := splitIDs(c.Params("ids"))
		maps, err := deps.Maps.GetByIDs(c.Context(), sessionFrom(c), ids)
		if err != nil {
			return errDomain(c, err)
		}
		if maps == nil {
			maps = []domain.Map{}
		}
		return c.JSON(maps)
	}
}

// UserMapsHandler returns the caller's own maps.
func UserMapsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		maps, err := deps.Maps.ListMine(c.Context(), sessionFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(maps)
	}
}

// PublicMapsHandler returns every public map.
func PublicMapsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		maps, err := deps.Maps.ListPublic(c.Context())
		if err != nil {
			return errDomain(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(maps)
	}
}

// DeleteMapHandler removes one map.
func DeleteMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "map id is required")
		}
		if err := deps.Maps.Delete(c.Context(), sessionFrom(c), id); err != nil {
			return errDomain(c, err)
		}
		return c.JSON(domain.MessageValues{Message: "map deleted", Success: true})
	}
}

// MapMarkersHandler runs the composition pipeline for one map and returns
// the filtered marker set.
func MapMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "map id is required")
		}

		start := time.Now()
		markers, err := deps.Maps.ComposeMarkers(c.Context(), sessionFrom(c), id, markerQueryFrom(c))
		if err != nil {
			return errDomain(c, err)
		}
		metrics.CompositionDuration.Observe(time.Since(start).Seconds())
		if markers == nil {
			markers = []domain.Marker{}
		}
		for _, m := range markers {
			if m.IsIteration {
				metrics.MarkersComposed.WithLabelValues("iteration").Inc()
				metrics.IterationsResolved.Inc()
			} else {
				metrics.MarkersComposed.WithLabelValues("base").Inc()
			}
		}

		lats := make([]float64, 0, len(markers))
		lons := make([]float64, 0, len(markers))
		for _, m := range markers {
			if m.GPS.IsZero() {
				continue
			}
			lats = append(lats, m.GPS.Lat)
			lons = append(lons, m.GPS.Lon)
		}
		lat, lon := geospatial.Centroid(lats, lons)

		return c.JSON(markersResponse{
			Markers: markers,
			Center:  domain.GeoPoint{Lat: lat, Lon: lon},
		})
	}
}
