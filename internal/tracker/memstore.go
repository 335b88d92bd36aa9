package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/claude/fitstreak/internal/models"
)

// MemStore is an in-process Store used for local runs and tests.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[models.SessionKey]models.WorkoutSession
	profiles map[string]models.UserProfile
	now      func() time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[models.SessionKey]models.WorkoutSession),
		profiles: make(map[string]models.UserProfile),
		now:      time.Now,
	}
}

func (m *MemStore) SaveSession(_ context.Context, key models.SessionKey, s models.WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Date, s.PlanID = key.Date, key.PlanID
	m.sessions[key] = cloneSession(s)
	return nil
}

func (m *MemStore) GetSession(_ context.Context, key models.SessionKey) (models.WorkoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if !ok {
		return models.WorkoutSession{}, ErrNotFound
	}
	return cloneSession(s), nil
}

func (m *MemStore) UpdateSession(_ context.Context, key models.SessionKey, u models.SessionUpdate) (models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return models.WorkoutSession{}, ErrNotFound
	}
	s = cloneSession(u.Apply(s))
	m.sessions[key] = s
	return cloneSession(s), nil
}

func (m *MemStore) ListSessions(_ context.Context, userID, from, to string) ([]models.WorkoutSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.WorkoutSession{}
	for k, s := range m.sessions {
		if k.UserID != userID || !InRange(k.Date, from, to) {
			continue
		}
		out = append(out, cloneSession(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].PlanID < out[j].PlanID
	})
	return out, nil
}

func (m *MemStore) GetProfile(_ context.Context, userID string) (models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return models.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (m *MemStore) SaveProfile(_ context.Context, p models.UserProfile) (models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.profiles[p.ID]; ok {
		p.CreatedAt, p.LastLogin = prev.CreatedAt, prev.LastLogin
	} else {
		p.CreatedAt = m.now().UTC()
		p.LastLogin = p.CreatedAt
	}
	m.profiles[p.ID] = p
	return p, nil
}

func (m *MemStore) TouchLogin(_ context.Context, userID, displayName string) (models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	p, ok := m.profiles[userID]
	if !ok {
		p = models.UserProfile{ID: userID, CreatedAt: now}
	}
	if displayName != "" {
		p.Name = displayName
	}
	p.LastLogin = now
	m.profiles[userID] = p
	return p, nil
}

// InRange reports whether date falls in [from, to). Empty bounds are open.
// Dates compare lexically, which matches calendar order for YYYY-MM-DD.
func InRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date >= to {
		return false
	}
	return true
}

func cloneSession(s models.WorkoutSession) models.WorkoutSession {
	if s.Exercises == nil {
		return s
	}
	ex := make([]models.Exercise, len(s.Exercises))
	for i, e := range s.Exercises {
		e.Weight = append([]float64(nil), e.Weight...)
		e.RepsPerSet = append([]int(nil), e.RepsPerSet...)
		e.Equipment = append([]string(nil), e.Equipment...)
		e.SecondaryMuscleGroups = append([]string(nil), e.SecondaryMuscleGroups...)
		ex[i] = e
	}
	s.Exercises = ex
	return s
}
