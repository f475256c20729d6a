package models

import (
	"time"

	"github.com/google/uuid"
)

// Device is a protected household or school device (mobile, tablet, desktop, smart_tv).
type Device struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name              string    `gorm:"not null;size:255" json:"name"`
	DeviceType        string    `gorm:"not null;size:50" json:"device_type"`
	ProtectionEnabled bool      `gorm:"default:true" json:"protection_enabled"`
	LastSeen          time.Time `gorm:"not null;index" json:"last_seen"`
	CreatedAt         time.Time `json:"created_at"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Device) TableName() string {
	return "devices"
}
