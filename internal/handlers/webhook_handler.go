package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	expectedAuth        string
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, expectedAuth string) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		expectedAuth:        expectedAuth,
	}
}

// HandleRevenueCat applies subscription lifecycle events. The Authorization
// header must match the configured shared secret.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	if h.expectedAuth == "" {
		return errorJSON(c, fiber.StatusNotFound, "Webhooks not configured")
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.expectedAuth)) != 1 {
		return unauthorized(c)
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}

	event := webhook.Event
	if err := h.subscriptionService.HandleWebhookEvent(c.UserContext(), event.ToBillingEvent()); err != nil {
		if errors.Is(err, services.ErrValidation) {
			slog.Warn("webhook rejected", "event_type", event.Type, "event_id", event.ID, "error", err)
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("webhook processing failed", "event_type", event.Type, "event_id", event.ID, "action", "revenuecat_webhook", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to process webhook event")
	}

	slog.Info("webhook processed", "event_type", event.Type, "event_id", event.ID)
	return c.JSON(fiber.Map{"received": true})
}
