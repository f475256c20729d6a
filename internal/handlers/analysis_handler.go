package handlers

import (
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.AnalyzeContentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rec, err := h.analysisService.Submit(c.UserContext(), userID, services.SubmitInput{
		ContentURL:  req.ContentURL,
		ContentType: req.ContentType,
	})
	if err != nil {
		return respondError(c, "analyze_content", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToContentAnalysisResponse(*rec))
}

// History serves GET /content/analyses?limit=N.
func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	records, limit, err := h.analysisService.History(c.UserContext(), userID, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, "list_analyses", err)
	}

	return c.JSON(dto.AnalysisHistoryResponse{
		Analyses: dto.ToContentAnalysisResponses(records),
		Limit:    limit,
	})
}

func (h *AnalysisHandler) Capabilities(c *fiber.Ctx) error {
	return c.JSON(dto.ToCapabilitiesResponse(h.analysisService.Capabilities()))
}
