package handlers

import (
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Current(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sub, err := h.subscriptionService.Current(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "get_subscription", err)
	}
	return c.JSON(dto.ToSubscriptionResponse(sub))
}
