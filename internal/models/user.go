package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the external auth service. This service only reads it and
// relies on it as the foreign key target for devices, subscriptions and analyses.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name             string         `gorm:"size:255" json:"name"`
	Password         string         `gorm:"not null" json:"-"`
	SubscriptionTier string         `gorm:"size:50;default:'family'" json:"subscription_tier"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
