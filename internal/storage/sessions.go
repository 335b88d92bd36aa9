package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/fitstreak/internal/models"
)

const sessionColumns = `to_char(session_date, 'YYYY-MM-DD'), plan_id, duration_min, notes, exercises`

// SaveSession upserts the session at key.
func (db *DB) SaveSession(ctx context.Context, key models.SessionKey, s models.WorkoutSession) error {
	day, err := parseDay(key.Date)
	if err != nil {
		return err
	}
	exercises, err := encodeExercises(s.Exercises)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, session_date, plan_id, duration_min, notes, exercises)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (user_id, session_date, plan_id) DO UPDATE SET
		   duration_min = EXCLUDED.duration_min,
		   notes = EXCLUDED.notes,
		   exercises = EXCLUDED.exercises,
		   updated_at = NOW()`,
		uuid.New(), key.UserID, day, key.PlanID, s.Duration, s.Notes, exercises)
	if err != nil {
		return fmt.Errorf("upserting session %s/%s: %w", key.Date, key.PlanID, err)
	}
	return nil
}

// GetSession retrieves the session at key.
func (db *DB) GetSession(ctx context.Context, key models.SessionKey) (models.WorkoutSession, error) {
	day, err := parseDay(key.Date)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions
		 WHERE user_id = $1 AND session_date = $2 AND plan_id = $3`,
		key.UserID, day, key.PlanID)
	s, err := scanSession(row)
	if err != nil {
		return models.WorkoutSession{}, notFound(err)
	}
	return s, nil
}

// UpdateSession applies u to the stored session inside a row-locking transaction.
func (db *DB) UpdateSession(ctx context.Context, key models.SessionKey, u models.SessionUpdate) (models.WorkoutSession, error) {
	day, err := parseDay(key.Date)
	if err != nil {
		return models.WorkoutSession{}, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanSession(tx.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions
		 WHERE user_id = $1 AND session_date = $2 AND plan_id = $3
		 FOR UPDATE`,
		key.UserID, day, key.PlanID))
	if err != nil {
		return models.WorkoutSession{}, notFound(err)
	}

	updated := u.Apply(current)
	exercises, err := encodeExercises(updated.Exercises)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE workout_sessions SET duration_min = $4, notes = $5, exercises = $6, updated_at = NOW()
		 WHERE user_id = $1 AND session_date = $2 AND plan_id = $3`,
		key.UserID, day, key.PlanID, updated.Duration, updated.Notes, exercises)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("updating session %s/%s: %w", key.Date, key.PlanID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("committing session update: %w", err)
	}
	return updated, nil
}

// ListSessions retrieves a user's sessions with from <= date < to.
func (db *DB) ListSessions(ctx context.Context, userID, from, to string) ([]models.WorkoutSession, error) {
	query, args, err := listSessionsQuery(userID, from, to)
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.WorkoutSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// listSessionsQuery builds the range query; empty bounds are left out.
func listSessionsQuery(userID, from, to string) (string, []any, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if from != "" {
		d, err := parseDay(from)
		if err != nil {
			return "", nil, err
		}
		args = append(args, d)
		where = append(where, fmt.Sprintf("session_date >= $%d", len(args)))
	}
	if to != "" {
		d, err := parseDay(to)
		if err != nil {
			return "", nil, err
		}
		args = append(args, d)
		where = append(where, fmt.Sprintf("session_date < $%d", len(args)))
	}
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY session_date ASC, plan_id ASC`
	return query, args, nil
}

func scanSession(row pgx.Row) (models.WorkoutSession, error) {
	var (
		s   models.WorkoutSession
		raw []byte
	)
	if err := row.Scan(&s.Date, &s.PlanID, &s.Duration, &s.Notes, &raw); err != nil {
		return models.WorkoutSession{}, fmt.Errorf("scanning session: %w", err)
	}
	exercises, err := decodeExercises(raw)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	s.Exercises = exercises
	return s, nil
}

func encodeExercises(exercises []models.Exercise) ([]byte, error) {
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	b, err := json.Marshal(exercises)
	if err != nil {
		return nil, fmt.Errorf("encoding exercises: %w", err)
	}
	return b, nil
}

func decodeExercises(raw []byte) ([]models.Exercise, error) {
	exercises := []models.Exercise{}
	if len(raw) == 0 {
		return exercises, nil
	}
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	return exercises, nil
}
