package api

import (
	"log/slog"

	"churchdirectory/internal/store"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{
		store: st,
	}
}

func (h *HealthHandler) Healthy(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		slog.Error("Store connection failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "unhealthy",
			"message": "Store connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "Service is healthy",
	})
}
