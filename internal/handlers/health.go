package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kalagato/valuebot-backend/internal/services"
	"github.com/kalagato/valuebot-backend/internal/storage"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	store   storage.Store
	engine  *services.DialogueEngine
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, store storage.Store, engine *services.DialogueEngine) *HealthHandler {
	return &HealthHandler{
		Version: version,
		store:   store,
		engine:  engine,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	leadCount, err := h.store.CountLeads()
	storageStatus := "connected"
	statusCode := fiber.StatusOK
	if err != nil {
		storageStatus = "error: " + err.Error()
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "OK",
		"service": "ValueBot Backend",
		"version": h.Version,
		"storage": fiber.Map{
			"status": storageStatus,
			"leads":  leadCount,
		},
		"sessions": fiber.Map{
			"active": h.engine.Sessions().ActiveCount(),
		},
	})
}
