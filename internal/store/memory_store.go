package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/detection"
	"github.com/ahmetcoskunkizilkaya/safeview-backend/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for demo/development and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]models.User
	devices       map[uuid.UUID][]models.Device // by user
	subscriptions []models.Subscription
	analyses      map[uuid.UUID][]models.ContentAnalysis // by user, insertion order
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]models.User),
		devices:  make(map[uuid.UUID][]models.Device),
		analyses: make(map[uuid.UUID][]models.ContentAnalysis),
		now:      time.Now,
	}
}

// WithClock overrides the clock used to stamp new records.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *MemoryStore) AddUser(u models.User) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	m.users[u.ID] = u
	return u
}

func (m *MemoryStore) AddDevice(d models.Device) (models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[d.UserID]; !ok {
		return models.Device{}, fmt.Errorf("%w: unknown user %s", ErrStorage, d.UserID)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = m.now()
	}
	if d.LastSeen.IsZero() {
		d.LastSeen = d.CreatedAt
	}
	m.devices[d.UserID] = append(m.devices[d.UserID], d)
	return d, nil
}

// Insert stores a fully formed record as-is. Used for seeding history with
// explicit timestamps.
func (m *MemoryStore) Insert(rec models.ContentAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[rec.UserID]; !ok {
		return fmt.Errorf("%w: unknown user %s", ErrStorage, rec.UserID)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.IsBlocked = rec.RiskLevel == models.RiskHigh
	m.analyses[rec.UserID] = append(m.analyses[rec.UserID], rec)
	return nil
}

func (m *MemoryStore) Create(_ context.Context, userID uuid.UUID, contentURL, contentType string, v detection.Verdict) (*models.ContentAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return nil, fmt.Errorf("%w: create content analysis: unknown user %s", ErrStorage, userID)
	}
	rec := newRecord(userID, contentURL, contentType, v, m.now())
	stored := *rec
	stored.ThreatTypes = append([]string{}, rec.ThreatTypes...)
	m.analyses[userID] = append(m.analyses[userID], stored)
	return rec, nil
}

func (m *MemoryStore) ListRecentByUser(_ context.Context, userID uuid.UUID, limit int) ([]models.ContentAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.sortedLocked(userID, func(models.ContentAnalysis) bool { return true })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) ListByUserSince(_ context.Context, userID uuid.UUID, since time.Time) ([]models.ContentAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedLocked(userID, func(r models.ContentAnalysis) bool {
		return !r.AnalyzedAt.Before(since)
	}), nil
}

// sortedLocked returns copies of matching records, newest first.
func (m *MemoryStore) sortedLocked(userID uuid.UUID, keep func(models.ContentAnalysis) bool) []models.ContentAnalysis {
	out := []models.ContentAnalysis{}
	for _, r := range m.analyses[userID] {
		if keep(r) {
			r.ThreatTypes = append([]string{}, r.ThreatTypes...)
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnalyzedAt.After(out[j].AnalyzedAt)
	})
	return out
}

func (m *MemoryStore) Devices() DeviceReader { return memDevices{m} }

func (m *MemoryStore) Subscriptions() SubscriptionStore { return memSubscriptions{m} }

func (m *MemoryStore) Ping(context.Context) error { return nil }

type memDevices struct {
	m *MemoryStore
}

func (d memDevices) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Device, error) {
	d.m.mu.RLock()
	defer d.m.mu.RUnlock()
	return append([]models.Device{}, d.m.devices[userID]...), nil
}

type memSubscriptions struct {
	m *MemoryStore
}

func (s memSubscriptions) ActiveByUser(_ context.Context, userID uuid.UUID) (*models.Subscription, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for i := len(s.m.subscriptions) - 1; i >= 0; i-- {
		sub := s.m.subscriptions[i]
		if sub.UserID == userID && sub.IsActive {
			return &sub, nil
		}
	}
	return nil, ErrNotFound
}

func (s memSubscriptions) Activate(_ context.Context, sub *models.Subscription) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[sub.UserID]; !ok {
		return fmt.Errorf("%w: activate subscription: unknown user %s", ErrStorage, sub.UserID)
	}
	for i := range s.m.subscriptions {
		if s.m.subscriptions[i].UserID == sub.UserID {
			s.m.subscriptions[i].IsActive = false
		}
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	now := s.m.now()
	sub.IsActive = true
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.m.subscriptions = append(s.m.subscriptions, *sub)
	return nil
}

func (s memSubscriptions) Deactivate(_ context.Context, revenueCatID string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for i := range s.m.subscriptions {
		sub := &s.m.subscriptions[i]
		if sub.RevenueCatID == revenueCatID && sub.IsActive {
			sub.IsActive = false
			sub.UpdatedAt = s.m.now()
			n++
		}
	}
	return n, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
