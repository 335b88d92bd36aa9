package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitstreak/internal/models"
)

const profileColumns = `id, name, email, phone, age, height_cm, weight_kg, gender, goal, created_at, last_login`

// TouchLogin finds or creates a user by login name and records the login.
// The display name is only overwritten when non-empty.
func (db *DB) TouchLogin(ctx context.Context, userID, displayName string) (models.UserProfile, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
			SET last_login = NOW(), name = COALESCE(NULLIF($2, ''), users.name)
		RETURNING `+profileColumns, userID, displayName)
	p, err := scanProfile(row)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("touching user %s: %w", userID, err)
	}
	return p, nil
}

// GetProfile retrieves the profile for userID.
func (db *DB) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return models.UserProfile{}, notFound(err)
	}
	return p, nil
}

// SaveProfile upserts the editable profile fields. Timestamps are left to the database.
func (db *DB) SaveProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, age, height_cm, weight_kg, gender, goal)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone,
			age = EXCLUDED.age, height_cm = EXCLUDED.height_cm, weight_kg = EXCLUDED.weight_kg,
			gender = EXCLUDED.gender, goal = EXCLUDED.goal
		RETURNING `+profileColumns,
		p.ID, p.Name, p.Email, p.Phone, p.Age, p.HeightCm, p.WeightKg, p.Gender, p.Goal)
	saved, err := scanProfile(row)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("saving profile %s: %w", p.ID, err)
	}
	return saved, nil
}

func scanProfile(row interface{ Scan(dest ...any) error }) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Age, &p.HeightCm, &p.WeightKg,
		&p.Gender, &p.Goal, &p.CreatedAt, &p.LastLogin)
	return p, err
}
