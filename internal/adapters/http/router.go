package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

// SetupRoutes registers all REST and GraphQL routes.
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

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Service catalogue
	v1 := app.Group("/v1")
	v1.Get("/services", timeout.NewWithContext(ListServicesHandler(deps), 15*time.Second))
	v1.Post("/services", timeout.NewWithContext(CreateServiceHandler(deps), 15*time.Second))
	v1.Get("/services/nearby", timeout.NewWithContext(NearbyServicesHandler(deps), 15*time.Second))
	v1.Get("/services/:id", timeout.NewWithContext(GetServiceHandler(deps), 15*time.Second))
	v1.Put("/services/:id", timeout.NewWithContext(UpdateServiceHandler(deps), 15*time.Second))
	v1.Delete("/services/:id", timeout.NewWithContext(DeleteServiceHandler(deps), 15*time.Second))

	// Route planning hits the upstream router, so it gets a longer timeout
	v1.Post("/routes", timeout.NewWithContext(CreateRouteHandler(deps), 30*time.Second))
	v1.Get("/routes", timeout.NewWithContext(ListRoutesHandler(deps), 15*time.Second))
	v1.Get("/routes/:id", timeout.NewWithContext(GetRouteHandler(deps), 15*time.Second))

	// Geocoding
	v1.Get("/geocode", timeout.NewWithContext(GeocodeHandler(deps), 15*time.Second))

	// Search history
	v1.Get("/searches", timeout.NewWithContext(SearchHistoryHandler(deps), 15*time.Second))
	v1.Delete("/searches/:id", timeout.NewWithContext(DeleteSearchHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))
}
