package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
)

type RevenueCatWebhook struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

type RevenueCatEvent struct {
	Type           string   `json:"type"`
	ID             string   `json:"id"`
	AppUserID      string   `json:"app_user_id"`
	ProductID      string   `json:"product_id"`
	EntitlementIDs []string `json:"entitlement_ids"`
	PurchasedAtMs  int64    `json:"purchased_at_ms"`
	ExpirationAtMs int64    `json:"expiration_at_ms"`
	Environment    string   `json:"environment"`
	Store          string   `json:"store"`
}

func (e RevenueCatEvent) ToBillingEvent() services.BillingEvent {
	return services.BillingEvent{
		Type:        e.Type,
		AppUserID:   e.AppUserID,
		ProductID:   e.ProductID,
		PurchasedAt: msToTime(e.PurchasedAtMs),
		ExpiresAt:   msToTime(e.ExpirationAtMs),
	}
}

func msToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
