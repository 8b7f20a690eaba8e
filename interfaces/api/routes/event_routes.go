package routes

import (
	"github.com/gofiber/fiber/v2"

	"photoevent/interfaces/api/handlers"
	"photoevent/interfaces/api/middleware"
	"photoevent/pkg/config"
)

func SetupEventRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	events := api.Group("/events", middleware.Protected(cfg.JWT.Secret))

	events.Post("/", h.Event.Create)
	events.Get("/", h.Event.List)
	events.Get("/:id", h.Event.Get)
	events.Delete("/:id", h.Event.Delete)

	events.Post("/:id/photos", h.Photo.Upload)
	events.Get("/:id/photos", h.Photo.List)
	events.Post("/:id/photos/retry-fingerprints", h.Photo.RetryFingerprints)
	events.Get("/:id/photos/processing-status", h.Photo.ProcessingStatus)
}
