package routes

import (
	"github.com/gofiber/fiber/v2"

	"photoevent/interfaces/api/handlers"
	"photoevent/interfaces/api/middleware"
	"photoevent/pkg/config"
)

// SetupPublicRoutes wires the accountless attendee surface. Everything
// here is rate limited per IP.
func SetupPublicRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	public := api.Group("/public", middleware.RateLimiter(&cfg.RateLimit))

	public.Get("/events/:id", h.Match.GetPublicEvent)
	public.Get("/events/:id/photos", h.Match.ListPublicPhotos)
	public.Post("/events/:id/find-my-photos", h.Match.FindMyPhotos)
}
