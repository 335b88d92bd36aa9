package history

import "github.com/claude/fitstreak/internal/models"

// labelLayout renders a session day as month abbreviation and day number, e.g. "Jan 3".
const labelLayout = "Jan 2"

// SeriesPoint is one chart point for a single exercise in one session.
type SeriesPoint struct {
	Date      string  `json:"date"`
	TopWeight float64 `json:"topWeight"`
	Volume    float64 `json:"volume"`
}

// BuildExerciseSeries returns one point per session that logged the named exercise.
//
// Matching is exact and case-sensitive. If a session logs the exercise more than
// once, the first occurrence wins. Input order is preserved; callers that need
// chronological output must pass sorted sessions (see SortByDate).
//
// Volume multiplies every set weight by the occurrence's prescribed reps rather
// than per-set reps. Occurrences without recorded weights are skipped.
func BuildExerciseSeries(sessions []models.WorkoutSession, name string) []SeriesPoint {
	points := make([]SeriesPoint, 0)
	for _, s := range sessions {
		ex, ok := s.Find(name)
		if !ok {
			continue
		}
		top, ok := ex.MaxWeight()
		if !ok {
			continue
		}
		reps := float64(ex.Reps.Value())
		var volume float64
		for _, w := range ex.Weight {
			volume += w * reps
		}
		points = append(points, SeriesPoint{
			Date:      dateLabel(s),
			TopWeight: top,
			Volume:    volume,
		})
	}
	return points
}

func dateLabel(s models.WorkoutSession) string {
	day, err := s.Day()
	if err != nil {
		return s.Date
	}
	return day.Format(labelLayout)
}
