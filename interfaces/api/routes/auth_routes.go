package routes

import (
	"github.com/gofiber/fiber/v2"

	"photoevent/interfaces/api/handlers"
	"photoevent/interfaces/api/middleware"
	"photoevent/pkg/config"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	auth := api.Group("/auth")

	authLimiter := middleware.AuthRateLimiter(&cfg.RateLimit)
	auth.Post("/register", authLimiter, h.Auth.Register)
	auth.Post("/login", authLimiter, h.Auth.Login)

	auth.Get("/me", middleware.Protected(cfg.JWT.Secret), h.Auth.Me)
}
