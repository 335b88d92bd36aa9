package models

import (
	"errors"
	"time"
)

// ErrInvalidProfile is returned when a profile is missing its identity.
var ErrInvalidProfile = errors.New("invalid profile")

// UserProfile holds identity and optional biometric/goal attributes.
// CreatedAt and LastLogin are assigned by the store.
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Age       *int      `json:"age,omitempty"`
	HeightCm  *float64  `json:"height,omitempty"`
	WeightKg  *float64  `json:"weight,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// ExerciseMeta is a read-only catalog entry keyed by exercise name.
type ExerciseMeta struct {
	Name                  string   `json:"name" yaml:"name"`
	MuscleGroup           string   `json:"muscleGroup" yaml:"muscle_group"`
	SubGroup              string   `json:"subGroup" yaml:"sub_group"`
	Equipment             []string `json:"equipment,omitempty" yaml:"equipment"`
	MovementType          string   `json:"movementType,omitempty" yaml:"movement_type"`
	Difficulty            string   `json:"difficulty,omitempty" yaml:"difficulty"`
	SecondaryMuscleGroups []string `json:"secondaryMuscleGroups,omitempty" yaml:"secondary_muscle_groups"`
}
