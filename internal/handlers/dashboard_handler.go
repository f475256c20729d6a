package handlers

import (
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	d, err := h.dashboardService.Dashboard(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "get_dashboard", err)
	}
	return c.JSON(dto.ToDashboardResponse(d))
}

func (h *DashboardHandler) ThreatAnalytics(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	daily, err := h.dashboardService.ThreatAnalytics(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "get_threat_analytics", err)
	}
	return c.JSON(dto.ToThreatAnalyticsResponse(daily))
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.dashboardService.Stats(c.UserContext(), userID, c.QueryInt("days"))
	if err != nil {
		return respondError(c, "get_analysis_stats", err)
	}
	return c.JSON(dto.ToAnalysisStatsResponse(stats))
}
