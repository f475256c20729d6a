package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

// respondError maps service errors onto HTTP statuses. Storage details are
// logged, never returned.
func respondError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Not found")
	}

	attrs := []any{
		"request_id", middleware.RequestID(c),
		"action", action,
		"error", err.Error(),
	}
	if userID, idErr := middleware.UserID(c); idErr == nil {
		attrs = append(attrs, "user_id", userID.String())
	}
	slog.ErrorContext(c.UserContext(), "request failed", attrs...)

	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}
