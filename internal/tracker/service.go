// Package tracker composes session storage with the catalog, the recovery
// policy and the history aggregations into the operations exposed over HTTP
// and MCP.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coocood/freecache"

	"github.com/claude/fitstreak/internal/catalog"
	"github.com/claude/fitstreak/internal/history"
	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/recovery"
	"github.com/claude/fitstreak/internal/strength"
)

// minRecoveryWindowDays is the shortest history scanned for recovery status.
// The window grows past it when the policy has a longer rest period.
const minRecoveryWindowDays = 14

// CacheConfig sizes the per-user aggregate cache. SizeMB <= 0 disables it.
type CacheConfig struct {
	SizeMB     int
	TTLSeconds int
}

// Service is the application layer over a Store.
type Service struct {
	store   Store
	catalog *catalog.Catalog
	policy  *recovery.Policy
	cache   *freecache.Cache
	ttl     int
	logger  *slog.Logger
	now     func() time.Time

	// mu guards gens and orders cache fills against invalidation.
	mu   sync.Mutex
	gens map[string]uint64
}

// New creates a Service.
func New(store Store, cat *catalog.Catalog, policy *recovery.Policy, cc CacheConfig, logger *slog.Logger) *Service {
	s := &Service{
		store:   store,
		catalog: cat,
		policy:  policy,
		ttl:     cc.TTLSeconds,
		logger:  logger,
		now:     time.Now,
		gens:    make(map[string]uint64),
	}
	if cc.SizeMB > 0 {
		s.cache = freecache.NewCache(cc.SizeMB * 1024 * 1024)
	}
	return s
}

// Catalog returns the exercise catalog the service was built with.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// OneRepMax estimates a one-rep max with the Epley formula.
func (s *Service) OneRepMax(weight float64, reps int) (int, error) {
	return strength.EstimateOneRepMax(weight, reps)
}

// LookupExercise returns catalog metadata for name.
func (s *Service) LookupExercise(name string) (models.ExerciseMeta, bool) {
	return s.catalog.LookupMeta(name)
}

// MuscleGroup returns the catalog muscle group for name, or "Other".
func (s *Service) MuscleGroup(name string) string {
	return s.catalog.LookupMuscleGroup(name)
}

// PersonalRecords returns the heaviest weight ever lifted per exercise.
func (s *Service) PersonalRecords(ctx context.Context, userID string) (map[string]float64, error) {
	var prs map[string]float64
	if s.cacheGet(recordsKey(userID), &prs) {
		return prs, nil
	}
	gen := s.generation(userID)
	sessions, err := s.store.ListSessions(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	prs = history.ExtractPersonalRecords(sessions)
	s.cacheSet(userID, gen, recordsKey(userID), prs)
	return prs, nil
}

// EstimatedMaxes returns the best Epley estimate per exercise.
func (s *Service) EstimatedMaxes(ctx context.Context, userID string) (map[string]int, error) {
	var maxes map[string]int
	if s.cacheGet(estimatesKey(userID), &maxes) {
		return maxes, nil
	}
	gen := s.generation(userID)
	sessions, err := s.store.ListSessions(ctx, userID, "", "")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	maxes = history.EstimatedMaxes(sessions)
	s.cacheSet(userID, gen, estimatesKey(userID), maxes)
	return maxes, nil
}

// ExerciseSeries returns the chart series for one exercise in chronological order.
func (s *Service) ExerciseSeries(ctx context.Context, userID, exercise, from, to string) ([]history.SeriesPoint, error) {
	sessions, err := s.store.ListSessions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return history.BuildExerciseSeries(history.SortByDate(sessions), exercise), nil
}

// RecoveryStatus reports readiness per muscle group from recent sessions.
func (s *Service) RecoveryStatus(ctx context.Context, userID string) ([]recovery.GroupStatus, error) {
	now := s.now()
	window := minRecoveryWindowDays
	if d := s.policy.MaxDays() + 1; d > window {
		window = d
	}
	from := now.AddDate(0, 0, -window).Format(models.DateLayout)
	sessions, err := s.store.ListSessions(ctx, userID, from, "")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return s.policy.Status(sessions, s.catalog, now), nil
}

// SaveSession validates and stores a session, replacing any existing one for
// the same date and plan.
func (s *Service) SaveSession(ctx context.Context, userID string, session models.WorkoutSession) (models.WorkoutSession, error) {
	if session.PlanID == "" {
		session.PlanID = models.DefaultPlanID
	}
	if err := session.Validate(); err != nil {
		return models.WorkoutSession{}, err
	}
	session.Exercises = s.annotate(session.Exercises)

	if err := s.store.SaveSession(ctx, session.Key(userID), session); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("saving session: %w", err)
	}
	s.invalidate(userID)
	s.logger.Debug("session saved", "user", userID, "date", session.Date, "plan", session.PlanID, "exercises", len(session.Exercises))
	return session, nil
}

// UpdateSession replaces individual fields of a stored session.
func (s *Service) UpdateSession(ctx context.Context, key models.SessionKey, u models.SessionUpdate) (models.WorkoutSession, error) {
	if key.PlanID == "" {
		key.PlanID = models.DefaultPlanID
	}
	if u.Duration != nil && *u.Duration < 0 {
		return models.WorkoutSession{}, fmt.Errorf("%w: duration must not be negative", models.ErrInvalidSession)
	}
	if u.Exercises != nil {
		for _, ex := range *u.Exercises {
			if err := ex.Validate(); err != nil {
				return models.WorkoutSession{}, err
			}
		}
		annotated := s.annotate(*u.Exercises)
		u.Exercises = &annotated
	}

	updated, err := s.store.UpdateSession(ctx, key, u)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("updating session: %w", err)
	}
	s.invalidate(key.UserID)
	return updated, nil
}

// GetSession fetches one session.
func (s *Service) GetSession(ctx context.Context, key models.SessionKey) (models.WorkoutSession, error) {
	if key.PlanID == "" {
		key.PlanID = models.DefaultPlanID
	}
	session, err := s.store.GetSession(ctx, key)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("getting session: %w", err)
	}
	return session, nil
}

// ListSessions returns sessions with from <= date < to.
func (s *Service) ListSessions(ctx context.Context, userID, from, to string) ([]models.WorkoutSession, error) {
	sessions, err := s.store.ListSessions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// Profile returns the stored profile for userID.
func (s *Service) Profile(ctx context.Context, userID string) (models.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// SaveProfile stores p. Timestamps are owned by the store.
func (s *Service) SaveProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	if p.ID == "" {
		return models.UserProfile{}, fmt.Errorf("%w: id is required", models.ErrInvalidProfile)
	}
	saved, err := s.store.SaveProfile(ctx, p)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("saving profile: %w", err)
	}
	return saved, nil
}

// Login records a login and returns the (possibly new) profile.
func (s *Service) Login(ctx context.Context, userID, displayName string) (models.UserProfile, error) {
	p, err := s.store.TouchLogin(ctx, userID, displayName)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("recording login: %w", err)
	}
	return p, nil
}

// annotate fills catalog metadata the client did not send.
func (s *Service) annotate(exercises []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, len(exercises))
	for i, ex := range exercises {
		if meta, ok := s.catalog.LookupMeta(ex.Name); ok {
			if ex.MuscleGroup == "" {
				ex.MuscleGroup = meta.MuscleGroup
			}
			if ex.SubGroup == "" {
				ex.SubGroup = meta.SubGroup
			}
			if len(ex.Equipment) == 0 {
				ex.Equipment = meta.Equipment
			}
			if ex.MovementType == "" {
				ex.MovementType = meta.MovementType
			}
			if ex.Difficulty == "" {
				ex.Difficulty = meta.Difficulty
			}
			if len(ex.SecondaryMuscleGroups) == 0 {
				ex.SecondaryMuscleGroups = meta.SecondaryMuscleGroups
			}
		} else if ex.MuscleGroup == "" {
			ex.MuscleGroup = catalog.UnknownGroup
		}
		out[i] = ex
	}
	return out
}

func recordsKey(userID string) []byte   { return []byte("records::" + userID) }
func estimatesKey(userID string) []byte { return []byte("estimates::" + userID) }

func (s *Service) cacheGet(key []byte, v any) bool {
	if s.cache == nil {
		return false
	}
	b, err := s.cache.Get(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		s.logger.Warn("discarding corrupt cache entry", "key", string(key), "error", err)
		s.cache.Del(key)
		return false
	}
	return true
}

// generation returns the write generation of userID. Read it before loading
// the sessions a cached value is computed from.
func (s *Service) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[userID]
}

// cacheSet stores v unless a write for userID landed after gen was read.
func (s *Service) cacheSet(userID string, gen uint64, key []byte, v any) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[userID] != gen {
		s.logger.Debug("skipping stale cache fill", "key", string(key))
		return
	}
	if err := s.cache.Set(key, b, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", string(key), "error", err)
	}
}

func (s *Service) invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[userID]++
	if s.cache == nil {
		return
	}
	s.cache.Del(recordsKey(userID))
	s.cache.Del(estimatesKey(userID))
}
