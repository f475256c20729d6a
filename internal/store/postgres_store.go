package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresStore is the GORM-backed Store.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Create(ctx context.Context, userID uuid.UUID, contentURL, contentType string, v detection.Verdict) (*models.ContentAnalysis, error) {
	rec := newRecord(userID, contentURL, contentType, v, s.now())
	if err := s.db.WithContext(ctx).Omit("User").Create(rec).Error; err != nil {
		return nil, fmt.Errorf("%w: create content analysis: %w", ErrStorage, err)
	}
	return rec, nil
}

func (s *PostgresStore) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ContentAnalysis, error) {
	records := []models.ContentAnalysis{}
	err := s.db.WithContext(ctx).Scopes(ForUser(userID)).
		Order("analyzed_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list recent analyses: %w", ErrStorage, err)
	}
	return records, nil
}

func (s *PostgresStore) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.ContentAnalysis, error) {
	records := []models.ContentAnalysis{}
	err := s.db.WithContext(ctx).Scopes(ForUser(userID)).
		Where("analyzed_at >= ?", since).
		Order("analyzed_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list analyses since %s: %w", ErrStorage, since.Format(time.RFC3339), err)
	}
	return records, nil
}

func (s *PostgresStore) Devices() DeviceReader { return pgDevices{db: s.db} }

func (s *PostgresStore) Subscriptions() SubscriptionStore { return pgSubscriptions{db: s.db} }

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type pgDevices struct {
	db *gorm.DB
}

func (d pgDevices) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Device, error) {
	devices := []models.Device{}
	if err := d.db.WithContext(ctx).Scopes(ForUser(userID)).Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("%w: list devices: %w", ErrStorage, err)
	}
	return devices, nil
}

type pgSubscriptions struct {
	db *gorm.DB
}

func (p pgSubscriptions) ActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := p.db.WithContext(ctx).Scopes(ForUser(userID)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: active subscription: %w", ErrStorage, err)
	}
	return &sub, nil
}

// Activate makes sub the user's only active subscription.
func (p pgSubscriptions) Activate(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.IsActive = true
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).Scopes(ForUser(sub.UserID)).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(sub).Error
	})
	if err != nil {
		return fmt.Errorf("%w: activate subscription: %w", ErrStorage, err)
	}
	return nil
}

func (p pgSubscriptions) Deactivate(ctx context.Context, revenueCatID string) (int64, error) {
	result := p.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("revenuecat_id = ? AND is_active = ?", revenueCatID, true).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: deactivate subscription: %w", ErrStorage, result.Error)
	}
	return result.RowsAffected, nil
}
