package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/store"
	"github.com/google/uuid"
)

const defaultBillingPeriod = 30 * 24 * time.Hour

// BillingEvent is the provider-neutral shape of a subscription lifecycle
// notification.
type BillingEvent struct {
	Type        string
	AppUserID   string
	ProductID   string
	PurchasedAt time.Time
	ExpiresAt   time.Time
}

type SubscriptionService struct {
	subscriptions store.SubscriptionStore
	now           func() time.Time
}

func NewSubscriptionService(subscriptions store.SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, now: time.Now}
}

// WithClock overrides the clock used when an event carries no dates.
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// Current returns the user's active subscription or store.ErrNotFound.
func (s *SubscriptionService) Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.subscriptions.ActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, event BillingEvent) error {
	switch event.Type {
	case "INITIAL_PURCHASE", "RENEWAL", "PRODUCT_CHANGE", "UNCANCELLATION":
		return s.activate(ctx, event)
	case "EXPIRATION":
		return s.expire(ctx, event)
	case "CANCELLATION":
		// Access continues until EXPIRATION arrives.
		slog.InfoContext(ctx, "subscription cancelled", "app_user_id", event.AppUserID, "product_id", event.ProductID)
		return nil
	default:
		slog.DebugContext(ctx, "ignoring billing event", "type", event.Type)
		return nil
	}
}

func (s *SubscriptionService) activate(ctx context.Context, event BillingEvent) error {
	userID, err := uuid.Parse(event.AppUserID)
	if err != nil {
		return fmt.Errorf("%w: app_user_id must be a user id", ErrValidation)
	}
	if event.ProductID == "" {
		return fmt.Errorf("%w: product_id is required", ErrValidation)
	}

	expires := event.ExpiresAt
	if expires.IsZero() {
		// No expiry sent: one billing period from purchase, or from now.
		start := event.PurchasedAt
		if start.IsZero() {
			start = s.now().UTC()
		}
		expires = start.Add(defaultBillingPeriod)
	}

	sub := &models.Subscription{
		UserID:       userID,
		Tier:         TierForProduct(event.ProductID),
		RevenueCatID: event.AppUserID,
		ProductID:    event.ProductID,
		ExpiresAt:    expires,
	}
	if err := s.subscriptions.Activate(ctx, sub); err != nil {
		countStorageError("activate_subscription")
		return err
	}
	slog.InfoContext(ctx, "subscription activated",
		"user_id", userID.String(),
		"tier", sub.Tier,
		"type", event.Type,
	)
	return nil
}

func (s *SubscriptionService) expire(ctx context.Context, event BillingEvent) error {
	n, err := s.subscriptions.Deactivate(ctx, event.AppUserID)
	if err != nil {
		countStorageError("deactivate_subscription")
		return err
	}
	slog.InfoContext(ctx, "subscription expired", "app_user_id", event.AppUserID, "rows", n)
	return nil
}

// TierForProduct maps a store product identifier onto a plan tier.
func TierForProduct(productID string) string {
	p := strings.ToLower(productID)
	switch {
	case strings.Contains(p, models.TierSchoolEnterprise):
		return models.TierSchoolEnterprise
	case strings.Contains(p, models.TierSchoolBasic):
		return models.TierSchoolBasic
	default:
		return models.TierFamily
	}
}
