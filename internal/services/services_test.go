package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Perm(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

var testNow = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func newFixture(t *testing.T) (*store.MemoryStore, models.User) {
	t.Helper()
	m := store.NewMemoryStore().WithClock(clock)
	u := m.AddUser(models.User{Email: "parent@example.com", Name: "Parent"})
	return m, u
}

func insert(t *testing.T, m *store.MemoryStore, userID uuid.UUID, level string, at time.Time) {
	t.Helper()
	require.NoError(t, m.Insert(models.ContentAnalysis{
		UserID:      userID,
		ContentURL:  "https://example.com/" + level,
		ContentType: detection.ContentVideo,
		RiskLevel:   level,
		ThreatTypes: []string{},
		AnalyzedAt:  at,
	}))
}

func TestSubmit_ForcedHighRollIsBlockedAndListed(t *testing.T) {
	ctx := context.Background()
	m, u := newFixture(t)
	det := detection.NewMockDetector(&scriptedSource{floats: []float64{0.5, 0.95}, ints: []int{0}})
	svc := NewAnalysisService(det, m)

	rec, err := svc.Submit(ctx, u.ID, SubmitInput{ContentURL: "https://example.com/clip.mp4", ContentType: "video"})
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, rec.RiskLevel)
	assert.True(t, rec.IsBlocked)
	assert.Len(t, rec.ThreatTypes, 2)
	assert.Equal(t, "https://example.com/clip.mp4", rec.ContentURL)

	history, limit, err := svc.History(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, limit)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.True(t, history[0].IsBlocked)
}

func TestSubmit_NormalizesContentType(t *testing.T) {
	m, u := newFixture(t)
	det := detection.NewMockDetector(&scriptedSource{floats: []float64{0, 0.1}})
	svc := NewAnalysisService(det, m)

	rec, err := svc.Submit(context.Background(), u.ID, SubmitInput{ContentURL: " https://example.com/a.png ", ContentType: "Image"})
	require.NoError(t, err)
	assert.Equal(t, "image", rec.ContentType)
	assert.Equal(t, "https://example.com/a.png", rec.ContentURL)
	assert.Equal(t, models.RiskSafe, rec.RiskLevel)
	assert.False(t, rec.IsBlocked)
}

func TestSubmit_ValidationFailures(t *testing.T) {
	m, u := newFixture(t)
	svc := NewAnalysisService(detection.NewMockDetector(nil), m)

	tests := []struct {
		name string
		in   SubmitInput
		msg  string
	}{
		{"missing url", SubmitInput{ContentType: "video"}, "content_url is required"},
		{"bad url", SubmitInput{ContentURL: "not a url", ContentType: "video"}, "content_url must be a valid URL"},
		{"missing type", SubmitInput{ContentURL: "https://example.com/a"}, "content_type is required"},
		{"unknown type", SubmitInput{ContentURL: "https://example.com/a", ContentType: "text"}, "content_type must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), u.ID, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	history, _, err := svc.History(context.Background(), u.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSubmit_UnknownUserIsStorageFailure(t *testing.T) {
	m, _ := newFixture(t)
	svc := NewAnalysisService(detection.NewMockDetector(nil), m)

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{ContentURL: "https://example.com/a", ContentType: "audio"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorage)
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestHistory_ClampsLimit(t *testing.T) {
	m, u := newFixture(t)
	for i := 0; i < 3; i++ {
		insert(t, m, u.ID, models.RiskSafe, testNow.Add(-time.Duration(i)*time.Minute))
	}
	svc := NewAnalysisService(detection.NewMockDetector(nil), m)

	records, limit, err := svc.History(context.Background(), u.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, limit)
	assert.Len(t, records, 3)

	records, limit, err = svc.History(context.Background(), u.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, limit)
	assert.Len(t, records, 2)
}

func TestCapabilities_PassThrough(t *testing.T) {
	svc := NewAnalysisService(detection.NewMockDetector(nil), store.NewMemoryStore())
	caps := svc.Capabilities()
	assert.Equal(t, []string{"video", "image", "audio"}, caps.SupportedContentTypes)
	assert.Equal(t, 0.94, caps.AccuracyRate)
}

func newDashboard(m *store.MemoryStore) *DashboardService {
	return NewDashboardService(m, m.Devices(), m.Subscriptions()).WithClock(clock)
}

func TestDashboard_EmptyAccount(t *testing.T) {
	m, u := newFixture(t)

	d, err := newDashboard(m).Dashboard(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, d.TotalDevices)
	assert.Equal(t, 0, d.ProtectedDevices)
	assert.Equal(t, 0, d.ThreatsBlockedToday)
	assert.Equal(t, models.TierFamily, d.SubscriptionTier)
	assert.Empty(t, d.RecentDevices)
	assert.Empty(t, d.RecentThreats)
}

func TestDashboard_CountsHighWithinRecentWindow(t *testing.T) {
	m, u := newFixture(t)
	// Newest first: 3 high among the 10 newest, 2 more high further back.
	levels := []string{
		models.RiskHigh, models.RiskSafe, models.RiskMedium, models.RiskHigh, models.RiskSafe,
		models.RiskSafe, models.RiskHigh, models.RiskMedium, models.RiskSafe, models.RiskSafe,
		models.RiskHigh, models.RiskHigh,
	}
	for i, level := range levels {
		insert(t, m, u.ID, level, testNow.Add(-time.Duration(i)*time.Hour))
	}

	d, err := newDashboard(m).Dashboard(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, d.ThreatsBlockedToday)
	require.Len(t, d.RecentThreats, 5)
	assert.True(t, d.RecentThreats[0].AnalyzedAt.Equal(testNow))
	for i := 1; i < len(d.RecentThreats); i++ {
		assert.True(t, d.RecentThreats[i-1].AnalyzedAt.After(d.RecentThreats[i].AnalyzedAt))
	}
}

func TestDashboard_DevicesAndTier(t *testing.T) {
	ctx := context.Background()
	m, u := newFixture(t)
	for i := 0; i < 7; i++ {
		_, err := m.AddDevice(models.Device{
			UserID:            u.ID,
			Name:              fmt.Sprintf("device-%d", i),
			DeviceType:        "mobile",
			ProtectionEnabled: i%2 == 0,
			LastSeen:          testNow.Add(-time.Duration(7-i) * time.Hour),
		})
		require.NoError(t, err)
	}
	require.NoError(t, m.Subscriptions().Activate(ctx, &models.Subscription{
		UserID: u.ID, Tier: models.TierSchoolBasic, ExpiresAt: testNow.Add(24 * time.Hour),
	}))

	d, err := newDashboard(m).Dashboard(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, 7, d.TotalDevices)
	assert.Equal(t, 4, d.ProtectedDevices)
	assert.Equal(t, models.TierSchoolBasic, d.SubscriptionTier)
	require.Len(t, d.RecentDevices, 5)
	assert.Equal(t, "device-6", d.RecentDevices[0].Name)
	assert.Equal(t, "device-2", d.RecentDevices[4].Name)
}

func TestThreatAnalytics_GroupsByUTCDate(t *testing.T) {
	m, u := newFixture(t)
	day1 := time.Date(2026, 5, 18, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 19, 8, 0, 0, 0, time.UTC)
	insert(t, m, u.ID, models.RiskHigh, day1)
	insert(t, m, u.ID, models.RiskSafe, day1.Add(10*time.Minute))
	insert(t, m, u.ID, models.RiskMedium, day2)
	insert(t, m, u.ID, models.RiskHigh, testNow.Add(-31*24*time.Hour))

	daily, err := newDashboard(m).ThreatAnalytics(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, map[string]RiskCounts{
		"2026-05-18": {Safe: 1, High: 1},
		"2026-05-19": {Medium: 1},
	}, daily)
}

func TestThreatAnalytics_EmptyAndBoundary(t *testing.T) {
	m, u := newFixture(t)
	svc := newDashboard(m)

	daily, err := svc.ThreatAnalytics(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotNil(t, daily)
	assert.Empty(t, daily)

	insert(t, m, u.ID, models.RiskMedium, testNow.Add(-30*24*time.Hour))
	daily, err = svc.ThreatAnalytics(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, RiskCounts{Medium: 1}, daily["2026-04-20"])
}

func TestStats_Window(t *testing.T) {
	m, u := newFixture(t)
	insert(t, m, u.ID, models.RiskHigh, testNow.Add(-time.Hour))
	insert(t, m, u.ID, models.RiskMedium, testNow.Add(-48*time.Hour))
	insert(t, m, u.ID, models.RiskSafe, testNow.Add(-10*24*time.Hour))
	svc := newDashboard(m)

	stats, err := svc.Stats(context.Background(), u.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Days)
	assert.Equal(t, 2, stats.TotalAnalyzed)
	assert.Equal(t, 1, stats.TotalBlocked)
	assert.Equal(t, RiskCounts{Medium: 1, High: 1}, stats.RiskBreakdown)

	stats, err = svc.Stats(context.Background(), u.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.Days)
	assert.Equal(t, 3, stats.TotalAnalyzed)

	_, err = svc.Stats(context.Background(), u.ID, 366)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTierForProduct(t *testing.T) {
	assert.Equal(t, models.TierSchoolEnterprise, TierForProduct("safeview_school_enterprise_yearly"))
	assert.Equal(t, models.TierSchoolBasic, TierForProduct("SafeView_School_Basic_Monthly"))
	assert.Equal(t, models.TierFamily, TierForProduct("safeview_family_monthly"))
	assert.Equal(t, models.TierFamily, TierForProduct(""))
}

func TestHandleWebhookEvent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m, u := newFixture(t)
	svc := NewSubscriptionService(m.Subscriptions())

	_, err := svc.Current(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	expires := testNow.Add(365 * 24 * time.Hour)
	require.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{
		Type: "INITIAL_PURCHASE", AppUserID: u.ID.String(), ProductID: "safeview_school_enterprise_yearly", ExpiresAt: expires,
	}))
	sub, err := svc.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierSchoolEnterprise, sub.Tier)
	assert.True(t, sub.ExpiresAt.Equal(expires))

	require.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{Type: "CANCELLATION", AppUserID: u.ID.String()}))
	_, err = svc.Current(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{Type: "EXPIRATION", AppUserID: u.ID.String()}))
	_, err = svc.Current(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHandleWebhookEvent_Rejects(t *testing.T) {
	ctx := context.Background()
	m, u := newFixture(t)
	svc := NewSubscriptionService(m.Subscriptions())

	err := svc.HandleWebhookEvent(ctx, BillingEvent{Type: "RENEWAL", AppUserID: "anonymous-123", ProductID: "family"})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.HandleWebhookEvent(ctx, BillingEvent{Type: "RENEWAL", AppUserID: uuid.NewString(), ProductID: "family"})
	assert.ErrorIs(t, err, store.ErrStorage)

	assert.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{Type: "TEST", AppUserID: u.ID.String()}))
}

func TestHandleWebhookEvent_DefaultExpiry(t *testing.T) {
	ctx := context.Background()
	m, u := newFixture(t)
	svc := NewSubscriptionService(m.Subscriptions()).WithClock(clock)

	purchased := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{
		Type: "INITIAL_PURCHASE", AppUserID: u.ID.String(), ProductID: "safeview_family_monthly", PurchasedAt: purchased,
	}))
	sub, err := svc.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, sub.ExpiresAt.Equal(purchased.Add(30*24*time.Hour)))

	require.NoError(t, svc.HandleWebhookEvent(ctx, BillingEvent{
		Type: "RENEWAL", AppUserID: u.ID.String(), ProductID: "safeview_family_monthly",
	}))
	sub, err = svc.Current(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, sub.ExpiresAt.Equal(testNow.Add(30*24*time.Hour)))
}
