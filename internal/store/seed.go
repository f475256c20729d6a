package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
)

// DemoUserID is the fixed owner of the seeded demo household.
var DemoUserID = uuid.MustParse("5f0c6a52-8d1e-4a7b-9c3f-2e6d8b4a1c70")

// SeedDemo fills m with one family account, three devices, a family
// subscription and a short analysis history.
func SeedDemo(ctx context.Context, m *MemoryStore, now time.Time) error {
	user := m.AddUser(models.User{
		ID:               DemoUserID,
		Email:            "parent@example.com",
		Name:             "Johnson Family",
		SubscriptionTier: models.TierFamily,
		CreatedAt:        now.Add(-72 * time.Hour),
	})

	devices := []models.Device{
		{Name: "Emma's iPad", DeviceType: "tablet", ProtectionEnabled: true, LastSeen: now.Add(-5 * time.Minute)},
		{Name: "Alex's Phone", DeviceType: "mobile", ProtectionEnabled: true, LastSeen: now.Add(-2 * time.Hour)},
		{Name: "Family Laptop", DeviceType: "desktop", ProtectionEnabled: false, LastSeen: now.Add(-26 * time.Hour)},
	}
	for _, d := range devices {
		d.UserID = user.ID
		if _, err := m.AddDevice(d); err != nil {
			return err
		}
	}

	history := []models.ContentAnalysis{
		{
			ContentURL: "https://youtube.com/watch?v=example1", ContentType: "video",
			RiskLevel: models.RiskHigh, ConfidenceScore: 0.97,
			ThreatTypes: []string{"deepfake_video", "face_swap", "voice_cloning"},
			AnalyzedAt:  now.Add(-3 * time.Hour),
		},
		{
			ContentURL: "https://tiktok.com/@user/video/example2", ContentType: "video",
			RiskLevel: models.RiskMedium, ConfidenceScore: 0.82,
			ThreatTypes: []string{"synthetic_audio"},
			AnalyzedAt:  now.Add(-27 * time.Hour),
		},
		{
			ContentURL: "https://youtube.com/watch?v=example3", ContentType: "video",
			RiskLevel: models.RiskSafe, ConfidenceScore: 0.99,
			ThreatTypes: []string{},
			AnalyzedAt:  now.Add(-51 * time.Hour),
		},
	}
	for _, rec := range history {
		rec.UserID = user.ID
		if err := m.Insert(rec); err != nil {
			return err
		}
	}

	return m.Subscriptions().Activate(ctx, &models.Subscription{
		UserID:    user.ID,
		Tier:      models.TierFamily,
		ProductID: "safeview_family_monthly",
		ExpiresAt: now.AddDate(0, 0, 30),
	})
}
