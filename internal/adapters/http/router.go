package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/lberthe/cartomark/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")

	v1.Get("/places", timeout.NewWithContext(ListPlacesHandler(deps), 15*time.Second))
	v1.Get("/places/forUser", timeout.NewWithContext(UserPlacesHandler(deps), 15*time.Second))
	v1.Get("/places/nearby", timeout.NewWithContext(NearbyPlacesHandler(deps), 15*time.Second))
	v1.Get("/places/byId/:ids", timeout.NewWithContext(PlacesByIDHandler(deps), 15*time.Second))
	v1.Post("/places/create", timeout.NewWithContext(CreatePlaceHandler(deps), 15*time.Second))
	v1.Put("/places/update", timeout.NewWithContext(UpdatePlaceHandler(deps), 15*time.Second))
	v1.Delete("/places/delete/:id", timeout.NewWithContext(DeletePlaceHandler(deps), 15*time.Second))
	v1.Delete("/places/deleteMany/:ids", timeout.NewWithContext(DeletePlacesHandler(deps), 15*time.Second))

	v1.Get("/tags/userTags", timeout.NewWithContext(UserTagsHandler(deps), 15*time.Second))
	v1.Get("/tags/suggestions", timeout.NewWithContext(SuggestTagsHandler(deps), 15*time.Second))
	v1.Get("/tags/byId/:ids", timeout.NewWithContext(TagsByIDHandler(deps), 15*time.Second))
	v1.Post("/tags/create", timeout.NewWithContext(CreateTagHandler(deps), 15*time.Second))
	v1.Put("/tags/update", timeout.NewWithContext(UpdateTagHandler(deps), 15*time.Second))
	v1.Delete("/tags/delete/:id", timeout.NewWithContext(DeleteTagHandler(deps), 15*time.Second))
	v1.Delete("/tags/deleteMany/:ids", timeout.NewWithContext(DeleteTagsHandler(deps), 15*time.Second))

	v1.Get("/maps/byUser", timeout.NewWithContext(UserMapsHandler(deps), 15*time.Second))
	v1.Get("/maps/public", timeout.NewWithContext(PublicMapsHandler(deps), 15*time.Second))
	v1.Get("/maps/byId/:ids", timeout.NewWithContext(MapsByIDHandler(deps), 15*time.Second))
	v1.Post("/maps/save", timeout.NewWithContext(SaveMapHandler(deps), 15*time.Second))
	v1.Delete("/maps/delete/:id", timeout.NewWithContext(DeleteMapHandler(deps), 15*time.Second))
	v1.Get("/maps/:id/markers", timeout.NewWithContext(MapMarkersHandler(deps), 15*time.Second))

	v1.Get("/placeIterations/forUser", timeout.NewWithContext(UserIterationsHandler(deps), 15*time.Second))
	v1.Get("/placeIterations/byIds/:ids?", timeout.NewWithContext(IterationsByIDHandler(deps), 15*time.Second))
	v1.Post("/placeIterations/create", timeout.NewWithContext(CreateIterationHandler(deps), 15*time.Second))
	v1.Put("/placeIterations/update", timeout.NewWithContext(UpdateIterationHandler(deps), 15*time.Second))
	v1.Delete("/placeIterations/delete/:id", timeout.NewWithContext(DeleteIterationHandler(deps), 15*time.Second))

	// Moderation surface
	v1.Get("/admin/users", timeout.NewWithContext(AdminListUsersHandler(deps), 15*time.Second))
	v1.Delete("/admin/users/deleteMany/:ids", timeout.NewWithContext(AdminDeleteUsersHandler(deps), 15*time.Second))
	v1.Get("/admin/tags", timeout.NewWithContext(AdminListTagsHandler(deps), 15*time.Second))
	v1.Get("/admin/places", timeout.NewWithContext(AdminListPlacesHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
