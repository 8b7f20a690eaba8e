package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"photoevent/interfaces/api/handlers"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/ws/events/:id/processing", h.Processing.Upgrade, websocket.New(h.Processing.Handle))
}
