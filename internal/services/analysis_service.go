package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type SubmitInput struct {
	ContentURL  string `json:"content_url" validate:"required,max=2048,url"`
	ContentType string `json:"content_type" validate:"required,oneof=video image audio"`
}

// AnalysisService runs detection and records every verdict.
type AnalysisService struct {
	detector detection.Detector
	analyses store.AnalysisStore
}

func NewAnalysisService(detector detection.Detector, analyses store.AnalysisStore) *AnalysisService {
	return &AnalysisService{detector: detector, analyses: analyses}
}

// Submit analyzes one content reference for userID and persists the verdict.
// The returned record is the stored one.
func (s *AnalysisService) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*models.ContentAnalysis, error) {
	in.ContentURL = strings.TrimSpace(in.ContentURL)
	in.ContentType = strings.ToLower(strings.TrimSpace(in.ContentType))
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	verdict, err := s.detector.Analyze(ctx, in.ContentURL, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("detect content: %w", err)
	}

	rec, err := s.analyses.Create(ctx, userID, in.ContentURL, in.ContentType, verdict)
	if err != nil {
		countStorageError("create_analysis")
		return nil, err
	}

	metrics.ObserveAnalysis(rec.RiskLevel, rec.ContentType, rec.IsBlocked)
	slog.InfoContext(ctx, "content analyzed",
		"user_id", userID.String(),
		"analysis_id", rec.ID.String(),
		"content_type", rec.ContentType,
		"risk_level", rec.RiskLevel,
		"blocked", rec.IsBlocked,
	)
	return rec, nil
}

// History lists the user's most recent analyses. limit <= 0 selects the
// default and values above the maximum are clamped.
func (s *AnalysisService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.ContentAnalysis, int, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	records, err := s.analyses.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		countStorageError("list_recent_analyses")
		return nil, 0, err
	}
	return records, limit, nil
}

func (s *AnalysisService) Capabilities() detection.Capabilities {
	return s.detector.Capabilities()
}
