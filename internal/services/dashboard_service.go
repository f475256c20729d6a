package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/google/uuid"
)

const (
	// dashboardFetchSize bounds the record window threatsBlockedToday is
	// counted over. It is the N most recent analyses, not a calendar day.
	dashboardFetchSize = 10
	dashboardShown     = 5
	analyticsWindow    = 30 * 24 * time.Hour
	defaultStatsDays   = 30
	maxStatsDays       = 365
	defaultTier        = models.TierFamily
)

type RiskCounts struct {
	Safe   int
	Medium int
	High   int
}

// add counts one record; unknown levels are ignored.
func (c *RiskCounts) add(level string) bool {
	switch level {
	case models.RiskSafe:
		c.Safe++
	case models.RiskMedium:
		c.Medium++
	case models.RiskHigh:
		c.High++
	default:
		return false
	}
	return true
}

type Dashboard struct {
	TotalDevices        int
	ProtectedDevices    int
	ThreatsBlockedToday int
	SubscriptionTier    string
	RecentDevices       []models.Device
	RecentThreats       []models.ContentAnalysis
}

type AnalysisStats struct {
	Days          int
	TotalAnalyzed int
	TotalBlocked  int
	RiskBreakdown RiskCounts
}

// DashboardService aggregates one user's records into summaries. Nothing is
// cached; every call reads current storage state.
type DashboardService struct {
	analyses      store.AnalysisStore
	devices       store.DeviceReader
	subscriptions store.SubscriptionStore
	now           func() time.Time
}

func NewDashboardService(analyses store.AnalysisStore, devices store.DeviceReader, subscriptions store.SubscriptionStore) *DashboardService {
	return &DashboardService{
		analyses:      analyses,
		devices:       devices,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// WithClock overrides the clock that anchors analytics windows.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

func (s *DashboardService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	devices, err := s.devices.ListByUser(ctx, userID)
	if err != nil {
		countStorageError("list_devices")
		return nil, err
	}

	recent, err := s.analyses.ListRecentByUser(ctx, userID, dashboardFetchSize)
	if err != nil {
		countStorageError("list_recent_analyses")
		return nil, err
	}

	tier, err := s.activeTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TotalDevices:     len(devices),
		SubscriptionTier: tier,
		RecentDevices:    mostRecentlySeen(devices, dashboardShown),
		RecentThreats:    recent[:min(len(recent), dashboardShown)],
	}
	for _, dev := range devices {
		if dev.ProtectionEnabled {
			d.ProtectedDevices++
		}
	}
	for _, r := range recent {
		if r.RiskLevel == models.RiskHigh {
			d.ThreatsBlockedToday++
		}
	}
	return d, nil
}

func (s *DashboardService) activeTier(ctx context.Context, userID uuid.UUID) (string, error) {
	sub, err := s.subscriptions.ActiveByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return defaultTier, nil
	}
	if err != nil {
		countStorageError("active_subscription")
		return "", err
	}
	return sub.Tier, nil
}

// ThreatAnalytics buckets the last 30 days of records by UTC calendar date.
// Only dates with at least one record appear.
func (s *DashboardService) ThreatAnalytics(ctx context.Context, userID uuid.UUID) (map[string]RiskCounts, error) {
	since := s.now().UTC().Add(-analyticsWindow)
	records, err := s.analyses.ListByUserSince(ctx, userID, since)
	if err != nil {
		countStorageError("list_analyses_since")
		return nil, err
	}

	daily := make(map[string]RiskCounts)
	for _, r := range records {
		key := r.AnalyzedAt.UTC().Format(time.DateOnly)
		counts := daily[key]
		if counts.add(r.RiskLevel) {
			daily[key] = counts
		}
	}
	return daily, nil
}

// Stats summarizes the last days of analyses. days <= 0 selects 30.
func (s *DashboardService) Stats(ctx context.Context, userID uuid.UUID, days int) (*AnalysisStats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		return nil, fmt.Errorf("%w: days must be at most %d", ErrValidation, maxStatsDays)
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	records, err := s.analyses.ListByUserSince(ctx, userID, since)
	if err != nil {
		countStorageError("list_analyses_since")
		return nil, err
	}

	stats := &AnalysisStats{Days: days}
	for _, r := range records {
		stats.TotalAnalyzed++
		if r.IsBlocked {
			stats.TotalBlocked++
		}
		stats.RiskBreakdown.add(r.RiskLevel)
	}
	return stats, nil
}

// mostRecentlySeen returns up to n devices ordered by LastSeen descending.
func mostRecentlySeen(devices []models.Device, n int) []models.Device {
	sorted := append([]models.Device{}, devices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastSeen.After(sorted[j].LastSeen)
	})
	return sorted[:min(len(sorted), n)]
}
