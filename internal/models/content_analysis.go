package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RiskSafe   = "safe"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// ContentAnalysis is the append-only outcome of one analysis request.
// IsBlocked is fixed at creation and always equals RiskLevel == RiskHigh.
type ContentAnalysis struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_content_analyses_user_time,priority:1" json:"user_id"`
	ContentURL      string    `gorm:"type:text;not null" json:"content_url"`
	ContentType     string    `gorm:"size:20;not null" json:"content_type"`
	RiskLevel       string    `gorm:"size:10;not null;index" json:"risk_level"`
	ConfidenceScore float64   `gorm:"not null" json:"confidence_score"`
	ThreatTypes     []string  `gorm:"type:jsonb;serializer:json;default:'[]'" json:"threat_types"`
	IsBlocked       bool      `gorm:"not null;default:false" json:"is_blocked"`
	AnalyzedAt      time.Time `gorm:"not null;index:idx_content_analyses_user_time,priority:2,sort:desc" json:"analyzed_at"`
	User            User      `gorm:"foreignKey:UserID" json:"-"`
}

func (ContentAnalysis) TableName() string {
	return "content_analyses"
}
