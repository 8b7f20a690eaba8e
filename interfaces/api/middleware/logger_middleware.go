package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"photoevent/pkg/logger"
)

// LoggerMiddleware records every request in the api log category.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info(logger.CategoryAPI, "request", "HTTP request", map[string]interface{}{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
			"ip":       c.IP(),
		})
		return err
	}
}
