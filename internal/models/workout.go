package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for session dates and store keys.
const DateLayout = "2006-01-02"

// DefaultPlanID is used when a session is logged without a plan.
const DefaultPlanID = "default"

// ErrInvalidSession is returned when a session or one of its exercises fails validation.
var ErrInvalidSession = errors.New("invalid session")

// Exercise is one logged exercise instance within a session.
// Weight and RepsPerSet are index-aligned: index i is the same set in both.
type Exercise struct {
	ID                    string    `json:"id,omitempty"`
	Name                  string    `json:"name"`
	MuscleGroup           string    `json:"muscleGroup,omitempty"`
	SubGroup              string    `json:"subGroup,omitempty"`
	SecondaryMuscleGroups []string  `json:"secondaryMuscleGroups,omitempty"`
	Equipment             []string  `json:"equipment,omitempty"`
	MovementType          string    `json:"movementType,omitempty"`
	Difficulty            string    `json:"difficulty,omitempty"`
	Sets                  int       `json:"sets"`
	Reps                  Reps      `json:"reps"`
	RepsPerSet            []int     `json:"repsPerSet,omitempty"`
	Weight                []float64 `json:"weight"`
	RestSeconds           int       `json:"rest"`
	Intensity             string    `json:"intensity,omitempty"`
	Completed             bool      `json:"completed"`
}

// MaxWeight returns the heaviest set weight. ok is false when no weights were recorded.
func (e Exercise) MaxWeight() (top float64, ok bool) {
	for i, w := range e.Weight {
		if i == 0 || w > top {
			top = w
		}
	}
	return top, len(e.Weight) > 0
}

// Validate checks the shape invariants of a logged exercise.
func (e Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidSession)
	}
	if e.Sets <= 0 {
		return fmt.Errorf("%w: %s: sets must be positive", ErrInvalidSession, e.Name)
	}
	if len(e.RepsPerSet) > 0 && len(e.RepsPerSet) != len(e.Weight) {
		return fmt.Errorf("%w: %s: %d reps entries for %d weights", ErrInvalidSession, e.Name, len(e.RepsPerSet), len(e.Weight))
	}
	for i, w := range e.Weight {
		if w < 0 {
			return fmt.Errorf("%w: %s: set %d has negative weight", ErrInvalidSession, e.Name, i+1)
		}
	}
	for i, r := range e.RepsPerSet {
		if r < 0 {
			return fmt.Errorf("%w: %s: set %d has negative reps", ErrInvalidSession, e.Name, i+1)
		}
	}
	if e.RestSeconds < 0 {
		return fmt.Errorf("%w: %s: rest must not be negative", ErrInvalidSession, e.Name)
	}
	if e.Reps.Kind == RepsRange && e.Reps.Low > e.Reps.High {
		return fmt.Errorf("%w: %s: reps range %s is inverted", ErrInvalidSession, e.Name, e.Reps)
	}
	if e.Reps.Value() < 0 {
		return fmt.Errorf("%w: %s: reps must not be negative", ErrInvalidSession, e.Name)
	}
	return nil
}

// WorkoutSession is one day's logged workout for a plan.
type WorkoutSession struct {
	Date      string     `json:"date"`
	PlanID    string     `json:"planId,omitempty"`
	Duration  int        `json:"duration"`
	Notes     string     `json:"notes,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// Day parses the session date.
func (s WorkoutSession) Day() (time.Time, error) {
	return time.Parse(DateLayout, s.Date)
}

// Find returns the first exercise occurrence with the given name.
func (s WorkoutSession) Find(name string) (Exercise, bool) {
	for _, ex := range s.Exercises {
		if ex.Name == name {
			return ex, true
		}
	}
	return Exercise{}, false
}

// Validate checks the session date and every exercise.
func (s WorkoutSession) Validate() error {
	if _, err := s.Day(); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidSession, s.Date)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidSession)
	}
	for _, ex := range s.Exercises {
		if err := ex.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SessionKey addresses one session document in the store.
type SessionKey struct {
	UserID string
	Date   string
	PlanID string
}

// Key returns the store key of s for the given user.
func (s WorkoutSession) Key(userID string) SessionKey {
	plan := s.PlanID
	if plan == "" {
		plan = DefaultPlanID
	}
	return SessionKey{UserID: userID, Date: s.Date, PlanID: plan}
}

// SessionUpdate replaces individual fields of a stored session. Nil fields are left untouched.
type SessionUpdate struct {
	Exercises *[]Exercise `json:"exercises,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
	Duration  *int        `json:"duration,omitempty"`
}

// Apply returns a copy of s with the update applied.
func (u SessionUpdate) Apply(s WorkoutSession) WorkoutSession {
	if u.Exercises != nil {
		s.Exercises = *u.Exercises
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.Duration != nil {
		s.Duration = *u.Duration
	}
	return s
}
