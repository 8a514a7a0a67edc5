package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/haeun-dev/health-tracker-backend/internal/handlers"
	"github.com/haeun-dev/health-tracker-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	store *session.Store,
	authHandler *handlers.AuthHandler,
	recordHandler *handlers.RecordHandler,
	statusHandler *handlers.StatusHandler,
) {
	app.Get("/", statusHandler.Root)
	app.Get("/health", statusHandler.Health)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/check-auth", authHandler.CheckAuth)

	// Credential endpoints get a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/logout", middleware.SessionProtected(store), authHandler.Logout)

	// Data routes: fixed paths before the :date parameter so that
	// weight-chart and export are not swallowed as dates.
	data := api.Group("/health-data", middleware.SessionProtected(store))
	data.Get("/weight-chart", recordHandler.WeightChart)
	data.Get("/export", recordHandler.Export)
	data.Post("/import", recordHandler.Import)
	data.Get("/:date", recordHandler.GetDay)
	data.Post("/:date/:category", recordHandler.Save)

	// Everything else is a fixed 404 listing the surface.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Route not found",
			"routes": []string{
				"GET /",
				"GET /health",
				"GET /api/check-auth",
				"POST /api/register",
				"POST /api/login",
				"POST /api/logout",
				"GET /api/health-data/:date",
				"POST /api/health-data/:date/:category",
				"GET /api/health-data/weight-chart",
				"GET /api/health-data/export",
				"POST /api/health-data/import",
			},
		})
	})
}
