// Package history derives personal records and chart series from logged sessions.
// All functions are pure: inputs are never mutated and results are fresh values.
package history

import (
	"sort"

	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/strength"
)

// ExtractPersonalRecords returns the heaviest set weight ever logged per exercise name.
// Occurrences without any recorded weight are skipped, so a name whose every
// occurrence is empty does not appear in the result.
func ExtractPersonalRecords(sessions []models.WorkoutSession) map[string]float64 {
	records := make(map[string]float64)
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			top, ok := ex.MaxWeight()
			if !ok {
				continue
			}
			if best, seen := records[ex.Name]; !seen || top > best {
				records[ex.Name] = top
			}
		}
	}
	return records
}

// EstimatedMaxes returns the best Epley one-rep-max estimate per exercise name.
func EstimatedMaxes(sessions []models.WorkoutSession) map[string]int {
	maxes := make(map[string]int)
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			est, ok := strength.BestSetEstimate(ex)
			if !ok {
				continue
			}
			if est > maxes[ex.Name] {
				maxes[ex.Name] = est
			}
		}
	}
	return maxes
}

// SortByDate returns a chronologically sorted copy of sessions.
// Sessions on the same day keep their relative order.
func SortByDate(sessions []models.WorkoutSession) []models.WorkoutSession {
	sorted := make([]models.WorkoutSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}
