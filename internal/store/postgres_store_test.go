package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupPostgres boots a throwaway postgres and migrates the schema.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("safeview_test"),
		postgres.WithUsername("safeview"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable", "TimeZone=UTC")
	require.NoError(t, err)

	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{ID: uuid.New(), Email: email, Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestPostgresStore_AnalysisLifecycle(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	s := NewPostgresStore(db)
	u := createUser(t, db, "pg@example.com")

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	levels := []string{models.RiskSafe, models.RiskHigh, models.RiskMedium}
	var created []*models.ContentAnalysis
	for i, level := range levels {
		at := base.Add(time.Duration(i)*time.Hour + 123456789*time.Nanosecond)
		s.now = func() time.Time { return at }
		rec, err := s.Create(ctx, u.ID, "https://example.com/c", "video", verdict(level, "face_swap"))
		require.NoError(t, err)
		assert.Equal(t, level == models.RiskHigh, rec.IsBlocked)
		created = append(created, rec)
	}

	recent, err := s.ListRecentByUser(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.RiskMedium, recent[0].RiskLevel)
	assert.Equal(t, models.RiskHigh, recent[1].RiskLevel)
	assert.True(t, recent[1].IsBlocked)
	assert.Equal(t, []string{"face_swap"}, recent[1].ThreatTypes)

	// The record returned by Create is exactly the stored row.
	stored := recent[0]
	stored.AnalyzedAt = stored.AnalyzedAt.UTC()
	assert.Equal(t, *created[2], stored)

	since, err := s.ListByUserSince(ctx, u.ID, created[1].AnalyzedAt)
	require.NoError(t, err)
	assert.Len(t, since, 2, "lower bound is inclusive")

	empty, err := s.ListRecentByUser(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPostgresStore_CreateUnknownUser(t *testing.T) {
	db := setupPostgres(t)
	s := NewPostgresStore(db)

	_, err := s.Create(context.Background(), uuid.New(), "u", "video", verdict(models.RiskSafe))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestPostgresStore_DevicesAndSubscriptions(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	s := NewPostgresStore(db)
	u := createUser(t, db, "family@example.com")

	require.NoError(t, db.Create(&models.Device{UserID: u.ID, Name: "Tablet", DeviceType: "tablet", ProtectionEnabled: true, LastSeen: time.Now()}).Error)
	devices, err := s.Devices().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, devices, 1)

	subs := s.Subscriptions()
	_, err = subs.ActiveByUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, subs.Activate(ctx, &models.Subscription{UserID: u.ID, Tier: models.TierFamily, RevenueCatID: u.ID.String(), ExpiresAt: time.Now().AddDate(0, 1, 0)}))
	require.NoError(t, subs.Activate(ctx, &models.Subscription{UserID: u.ID, Tier: models.TierSchoolEnterprise, RevenueCatID: u.ID.String(), ExpiresAt: time.Now().AddDate(0, 1, 0)}))

	active, err := subs.ActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierSchoolEnterprise, active.Tier)

	n, err := subs.Deactivate(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Ping(ctx))
}
