package alpha

import (
	"strings"
	"unicode"

	"github.com/claude/fitstreak/internal/models"
)

// PlanID derives a plan id from the first segment of a session name:
// "Legs · Day 2 · Week 4" -> "legs".
func PlanID(sessionName string) string {
	first, _, _ := strings.Cut(sessionName, "·")
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(first)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	id := strings.TrimRight(b.String(), "-")
	if id == "" {
		return models.DefaultPlanID
	}
	return id
}

// ToWorkoutSession converts a parsed session. Warmups are dropped and
// exercises without working sets are left out.
func ToWorkoutSession(s Session) models.WorkoutSession {
	ws := models.WorkoutSession{
		Date:      s.Date.Format(models.DateLayout),
		PlanID:    PlanID(s.Name),
		Duration:  parseDurationMinutes(s.Duration),
		Notes:     s.Name,
		Exercises: []models.Exercise{},
	}
	for _, ex := range s.Exercises {
		working := ex.WorkingSets()
		if len(working) == 0 {
			continue
		}
		out := models.Exercise{
			Name:       ex.Name,
			Sets:       len(working),
			Reps:       models.FixedReps(ex.TargetReps),
			RepsPerSet: make([]int, len(working)),
			Weight:     make([]float64, len(working)),
			Completed:  true,
		}
		if ex.Equipment != "" {
			out.Equipment = []string{ex.Equipment}
		}
		for i, set := range working {
			out.RepsPerSet[i] = set.Reps
			out.Weight[i] = set.WeightKg
		}
		ws.Exercises = append(ws.Exercises, out)
	}
	return ws
}
