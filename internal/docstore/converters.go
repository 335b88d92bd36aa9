package docstore

import (
	"time"

	"cloud.google.com/go/firestore"

	"github.com/claude/fitstreak/internal/models"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// toInt accepts both integer and float encodings; Firestore returns int64
// for values written as integers.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func getInt(m map[string]interface{}, key string) (int, bool) {
	return toInt(m[key])
}

func getFloat(m map[string]interface{}, key string) (float64, bool) {
	return toFloat(m[key])
}

func getTime(m map[string]interface{}, key string) time.Time {
	if t, ok := m[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

func getStrings(m map[string]interface{}, key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getFloats(m map[string]interface{}, key string) []float64 {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := toFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

func getInts(m map[string]interface{}, key string) []int {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		if n, ok := toInt(v); ok {
			out = append(out, n)
		}
	}
	return out
}

// --- Session Converters ---

func sessionToFirestore(s models.WorkoutSession) map[string]interface{} {
	return map[string]interface{}{
		"date":      s.Date,
		"plan_id":   s.PlanID,
		"duration":  s.Duration,
		"notes":     s.Notes,
		"exercises": exercisesToFirestore(s.Exercises),
	}
}

func exercisesToFirestore(exercises []models.Exercise) []interface{} {
	out := make([]interface{}, 0, len(exercises))
	for _, e := range exercises {
		m := map[string]interface{}{
			"id":            e.ID,
			"name":          e.Name,
			"muscle_group":  e.MuscleGroup,
			"sub_group":     e.SubGroup,
			"movement_type": e.MovementType,
			"difficulty":    e.Difficulty,
			"sets":          e.Sets,
			"rest":          e.RestSeconds,
			"intensity":     e.Intensity,
			"completed":     e.Completed,
			"weight":        floatsToFirestore(e.Weight),
		}
		// Ranges keep their "low-high" form; fixed counts stay numeric.
		if e.Reps.Kind == models.RepsRange {
			m["reps"] = e.Reps.String()
		} else {
			m["reps"] = e.Reps.Count
		}
		if len(e.RepsPerSet) > 0 {
			reps := make([]interface{}, len(e.RepsPerSet))
			for i, r := range e.RepsPerSet {
				reps[i] = r
			}
			m["reps_per_set"] = reps
		}
		if len(e.Equipment) > 0 {
			m["equipment"] = stringsToFirestore(e.Equipment)
		}
		if len(e.SecondaryMuscleGroups) > 0 {
			m["secondary_muscle_groups"] = stringsToFirestore(e.SecondaryMuscleGroups)
		}
		out = append(out, m)
	}
	return out
}

func floatsToFirestore(fs []float64) []interface{} {
	out := make([]interface{}, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func stringsToFirestore(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func firestoreToSession(m map[string]interface{}) models.WorkoutSession {
	s := models.WorkoutSession{
		Date:      getString(m, "date"),
		PlanID:    getString(m, "plan_id"),
		Notes:     getString(m, "notes"),
		Exercises: []models.Exercise{},
	}
	s.Duration, _ = getInt(m, "duration")

	raw, _ := m["exercises"].([]interface{})
	for _, r := range raw {
		em, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		s.Exercises = append(s.Exercises, firestoreToExercise(em))
	}
	return s
}

func firestoreToExercise(m map[string]interface{}) models.Exercise {
	e := models.Exercise{
		ID:                    getString(m, "id"),
		Name:                  getString(m, "name"),
		MuscleGroup:           getString(m, "muscle_group"),
		SubGroup:              getString(m, "sub_group"),
		MovementType:          getString(m, "movement_type"),
		Difficulty:            getString(m, "difficulty"),
		Intensity:             getString(m, "intensity"),
		Completed:             getBool(m, "completed"),
		Weight:                getFloats(m, "weight"),
		RepsPerSet:            getInts(m, "reps_per_set"),
		Equipment:             getStrings(m, "equipment"),
		SecondaryMuscleGroups: getStrings(m, "secondary_muscle_groups"),
	}
	e.Sets, _ = getInt(m, "sets")
	e.RestSeconds, _ = getInt(m, "rest")

	if n, ok := getInt(m, "reps"); ok {
		e.Reps = models.FixedReps(n)
	} else if s := getString(m, "reps"); s != "" {
		if r, err := models.ParseReps(s); err == nil {
			e.Reps = r
		}
	}
	return e
}

// sessionUpdates converts the non-nil fields of u into Firestore field updates.
func sessionUpdates(u models.SessionUpdate) []firestore.Update {
	updates := []firestore.Update{{Path: "updated_at", Value: firestore.ServerTimestamp}}
	if u.Exercises != nil {
		updates = append(updates, firestore.Update{Path: "exercises", Value: exercisesToFirestore(*u.Exercises)})
	}
	if u.Notes != nil {
		updates = append(updates, firestore.Update{Path: "notes", Value: *u.Notes})
	}
	if u.Duration != nil {
		updates = append(updates, firestore.Update{Path: "duration", Value: *u.Duration})
	}
	return updates
}

// --- Profile Converters ---

// profileToFirestore returns the user-editable fields. Timestamps are server-owned.
func profileToFirestore(p models.UserProfile) map[string]interface{} {
	m := map[string]interface{}{
		"name":   p.Name,
		"email":  p.Email,
		"phone":  p.Phone,
		"gender": p.Gender,
		"goal":   p.Goal,
		"age":    nil,
		"height": nil,
		"weight": nil,
	}
	if p.Age != nil {
		m["age"] = *p.Age
	}
	if p.HeightCm != nil {
		m["height"] = *p.HeightCm
	}
	if p.WeightKg != nil {
		m["weight"] = *p.WeightKg
	}
	return m
}

func firestoreToProfile(m map[string]interface{}) models.UserProfile {
	p := models.UserProfile{
		Name:      getString(m, "name"),
		Email:     getString(m, "email"),
		Phone:     getString(m, "phone"),
		Gender:    getString(m, "gender"),
		Goal:      getString(m, "goal"),
		CreatedAt: getTime(m, "created_at"),
		LastLogin: getTime(m, "last_login"),
	}
	if n, ok := getInt(m, "age"); ok {
		p.Age = &n
	}
	if f, ok := getFloat(m, "height"); ok {
		p.HeightCm = &f
	}
	if f, ok := getFloat(m, "weight"); ok {
		p.WeightKg = &f
	}
	return p
}
