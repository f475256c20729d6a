package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
)

type AnalyzeContentRequest struct {
	ContentURL  string `json:"content_url"`
	ContentType string `json:"content_type"`
}

type ContentAnalysisResponse struct {
	ID              uuid.UUID `json:"id"`
	ContentURL      string    `json:"content_url"`
	ContentType     string    `json:"content_type"`
	RiskLevel       string    `json:"risk_level"`
	ConfidenceScore float64   `json:"confidence_score"`
	ThreatTypes     []string  `json:"threat_types"`
	IsBlocked       bool      `json:"is_blocked"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

type AnalysisHistoryResponse struct {
	Analyses []ContentAnalysisResponse `json:"analyses"`
	Limit    int                       `json:"limit"`
}

type CapabilitiesResponse struct {
	SupportedContentTypes []string `json:"supported_content_types"`
	ThreatTypes           []string `json:"threat_types"`
	AccuracyRate          float64  `json:"accuracy_rate"`
	ProcessingTimeAvg     string   `json:"processing_time_avg"`
}

func ToContentAnalysisResponse(a models.ContentAnalysis) ContentAnalysisResponse {
	threats := a.ThreatTypes
	if threats == nil {
		threats = []string{}
	}
	return ContentAnalysisResponse{
		ID:              a.ID,
		ContentURL:      a.ContentURL,
		ContentType:     a.ContentType,
		RiskLevel:       a.RiskLevel,
		ConfidenceScore: a.ConfidenceScore,
		ThreatTypes:     threats,
		IsBlocked:       a.IsBlocked,
		AnalyzedAt:      a.AnalyzedAt,
	}
}

func ToContentAnalysisResponses(list []models.ContentAnalysis) []ContentAnalysisResponse {
	out := make([]ContentAnalysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToContentAnalysisResponse(a))
	}
	return out
}

func ToCapabilitiesResponse(c detection.Capabilities) CapabilitiesResponse {
	return CapabilitiesResponse{
		SupportedContentTypes: c.SupportedContentTypes,
		ThreatTypes:           c.ThreatTypes,
		AccuracyRate:          c.AccuracyRate,
		ProcessingTimeAvg:     c.AvgProcessingTime,
	}
}
