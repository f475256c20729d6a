package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	pinger store.Pinger
	driver string
}

func NewHealthHandler(pinger store.Pinger, driver string) *HealthHandler {
	return &HealthHandler{pinger: pinger, driver: driver}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storeStatus := "ok"
	if err := h.pinger.Ping(c.UserContext()); err != nil {
		storeStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
		Driver:    h.driver,
	})
}
