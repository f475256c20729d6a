package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/services"
	"github.com/google/uuid"
)

type DeviceResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	DeviceType        string    `json:"device_type"`
	ProtectionEnabled bool      `json:"protection_enabled"`
	LastSeen          time.Time `json:"last_seen"`
	CreatedAt         time.Time `json:"created_at"`
}

type DashboardResponse struct {
	TotalDevices        int                       `json:"total_devices"`
	ProtectedDevices    int                       `json:"protected_devices"`
	ThreatsBlockedToday int                       `json:"threats_blocked_today"`
	SubscriptionTier    string                    `json:"subscription_tier"`
	RecentDevices       []DeviceResponse          `json:"recent_devices"`
	RecentThreats       []ContentAnalysisResponse `json:"recent_threats"`
}

type RiskCountsResponse struct {
	Safe   int `json:"safe"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type ThreatAnalyticsResponse struct {
	DailyThreats map[string]RiskCountsResponse `json:"daily_threats"`
}

type AnalysisStatsResponse struct {
	Days          int                `json:"days"`
	TotalAnalyzed int                `json:"total_analyzed"`
	TotalBlocked  int                `json:"total_blocked"`
	RiskBreakdown RiskCountsResponse `json:"risk_breakdown"`
}

func ToDeviceResponse(d models.Device) DeviceResponse {
	return DeviceResponse{
		ID:                d.ID,
		Name:              d.Name,
		DeviceType:        d.DeviceType,
		ProtectionEnabled: d.ProtectionEnabled,
		LastSeen:          d.LastSeen,
		CreatedAt:         d.CreatedAt,
	}
}

func ToDashboardResponse(d *services.Dashboard) DashboardResponse {
	devices := make([]DeviceResponse, 0, len(d.RecentDevices))
	for _, dev := range d.RecentDevices {
		devices = append(devices, ToDeviceResponse(dev))
	}
	return DashboardResponse{
		TotalDevices:        d.TotalDevices,
		ProtectedDevices:    d.ProtectedDevices,
		ThreatsBlockedToday: d.ThreatsBlockedToday,
		SubscriptionTier:    d.SubscriptionTier,
		RecentDevices:       devices,
		RecentThreats:       ToContentAnalysisResponses(d.RecentThreats),
	}
}

func ToRiskCountsResponse(c services.RiskCounts) RiskCountsResponse {
	return RiskCountsResponse{Safe: c.Safe, Medium: c.Medium, High: c.High}
}

func ToThreatAnalyticsResponse(daily map[string]services.RiskCounts) ThreatAnalyticsResponse {
	out := make(map[string]RiskCountsResponse, len(daily))
	for date, counts := range daily {
		out[date] = ToRiskCountsResponse(counts)
	}
	return ThreatAnalyticsResponse{DailyThreats: out}
}

func ToAnalysisStatsResponse(s *services.AnalysisStats) AnalysisStatsResponse {
	return AnalysisStatsResponse{
		Days:          s.Days,
		TotalAnalyzed: s.TotalAnalyzed,
		TotalBlocked:  s.TotalBlocked,
		RiskBreakdown: ToRiskCountsResponse(s.RiskBreakdown),
	}
}
