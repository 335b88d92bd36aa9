package tracker

import (
	"context"
	"errors"

	"github.com/claude/fitstreak/internal/models"
)

// ErrNotFound is returned by stores when a session or profile does not exist.
var ErrNotFound = errors.New("not found")

// Store persists sessions and profiles per user.
//
// ListSessions returns sessions with from <= date < to, where an empty bound is
// open, ordered by date then plan.
type Store interface {
	SaveSession(ctx context.Context, key models.SessionKey, s models.WorkoutSession) error
	GetSession(ctx context.Context, key models.SessionKey) (models.WorkoutSession, error)
	UpdateSession(ctx context.Context, key models.SessionKey, u models.SessionUpdate) (models.WorkoutSession, error)
	ListSessions(ctx context.Context, userID, from, to string) ([]models.WorkoutSession, error)

	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
	SaveProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error)
	// TouchLogin creates the profile on first sight and records the login time.
	TouchLogin(ctx context.Context, userID, displayName string) (models.UserProfile, error)
}
