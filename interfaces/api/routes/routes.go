package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photoevent/interfaces/api/handlers"
	"photoevent/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	SetupHealthRoutes(app, h)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, cfg)
	SetupEventRoutes(api, h, cfg)
	SetupPublicRoutes(api, h, cfg)

	// WebSocket routes attach to the app, not the versioned group.
	SetupWebSocketRoutes(app, h)
}
