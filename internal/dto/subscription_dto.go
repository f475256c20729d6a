package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
)

type SubscriptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Tier      string    `json:"tier"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func ToSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:        s.ID,
		Tier:      s.Tier,
		IsActive:  s.IsActive,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}
