package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/fitstreak/internal/ingest"
	"github.com/claude/fitstreak/internal/models"
)

// SessionSaver stores a session for a user. Implemented by tracker.Service.
type SessionSaver interface {
	SaveSession(ctx context.Context, userID string, s models.WorkoutSession) (models.WorkoutSession, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	saver SessionSaver
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(saver SessionSaver, log *slog.Logger) *Provider {
	return &Provider{saver: saver, log: log}
}

// Ingest parses a CSV export and saves every session. Re-importing the same
// export replaces the sessions it produced earlier.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID string) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				if set.IsWarmup {
					result.WarmupsSkipped++
				} else {
					result.SetsReceived++
				}
			}
		}

		ws := ToWorkoutSession(s)
		saved, err := p.saver.SaveSession(ctx, userID, ws)
		if err != nil {
			return result, fmt.Errorf("saving session %s/%s: %w", ws.Date, ws.PlanID, err)
		}
		result.SessionsSaved++
		result.ExercisesSaved += len(saved.Exercises)
	}

	p.log.Info("alpha import complete",
		"user", userID,
		"sessions", result.SessionsSaved,
		"sets", result.SetsReceived,
		"warmups_skipped", result.WarmupsSkipped,
	)
	return result, nil
}
