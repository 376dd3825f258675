package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kalagato/valuebot-backend/internal/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, whatsapp *handlers.WhatsAppHandler, health *handlers.HealthHandler) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to ValueBot Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":        "/health",
				"webhook":       "/webhook",
				"test_whatsapp": "/test/whatsapp",
			},
		})
	})

	// Health check
	app.Get("/health", health.Check)

	// ========== WEBHOOK ROUTES ==========
	// Meta Cloud API: GET for the verification handshake, POST for events
	app.Get("/webhook", whatsapp.HandleVerify)
	app.Post("/webhook", whatsapp.HandleWebhook)

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)
}
