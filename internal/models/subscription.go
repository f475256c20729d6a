package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TierFamily           = "family"
	TierSchoolBasic      = "school_basic"
	TierSchoolEnterprise = "school_enterprise"
)

type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Tier         string    `gorm:"not null;size:50" json:"tier"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	RevenueCatID string    `gorm:"index;size:255" json:"-"`
	ProductID    string    `gorm:"size:255" json:"product_id"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
}
