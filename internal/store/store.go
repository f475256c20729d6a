// Package store persists analysis records and reads the user-owned
// collaborators (devices, subscriptions) the dashboards depend on.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrStorage wraps every persistence failure, including references to
	// users that do not exist.
	ErrStorage  = errors.New("storage failure")
	ErrNotFound = errors.New("not found")
)

// AnalysisStore is append-only: records are created once and never updated.
type AnalysisStore interface {
	Create(ctx context.Context, userID uuid.UUID, contentURL, contentType string, v detection.Verdict) (*models.ContentAnalysis, error)
	// ListRecentByUser returns at most limit records, newest first.
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ContentAnalysis, error)
	// ListByUserSince returns records analyzed at or after since.
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.ContentAnalysis, error)
}

type DeviceReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error)
}

type SubscriptionStore interface {
	// ActiveByUser returns ErrNotFound when the user has no active subscription.
	ActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Activate(ctx context.Context, sub *models.Subscription) error
	Deactivate(ctx context.Context, revenueCatID string) (int64, error)
}

// Pinger reports backend liveness for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles everything the services need from a backend.
type Store interface {
	AnalysisStore
	Devices() DeviceReader
	Subscriptions() SubscriptionStore
	Pinger
}

// newRecord derives the persisted shape from a verdict. IsBlocked is computed
// here and nowhere else. AnalyzedAt is cut to microseconds, the precision
// timestamptz keeps, so the returned record matches what is read back.
func newRecord(userID uuid.UUID, contentURL, contentType string, v detection.Verdict, now time.Time) *models.ContentAnalysis {
	threats := append([]string{}, v.ThreatTypes...)
	return &models.ContentAnalysis{
		ID:              uuid.New(),
		UserID:          userID,
		ContentURL:      contentURL,
		ContentType:     contentType,
		RiskLevel:       v.RiskLevel,
		ConfidenceScore: v.Confidence,
		ThreatTypes:     threats,
		IsBlocked:       v.RiskLevel == models.RiskHigh,
		AnalyzedAt:      now.UTC().Truncate(time.Microsecond),
	}
}
