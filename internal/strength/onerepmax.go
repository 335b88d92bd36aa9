// Package strength estimates maximal strength from submaximal sets.
package strength

import (
	"errors"
	"fmt"
	"math"

	"github.com/claude/fitstreak/internal/models"
)

// ErrInvalidArgument is returned for negative or non-finite weight, negative
// reps, and estimates too large to represent.
var ErrInvalidArgument = errors.New("invalid argument")

// EstimateOneRepMax returns the Epley estimate round(weight × (1 + reps/30)).
// A zero weight or zero reps means no attempt was performed and yields 0.
func EstimateOneRepMax(weight float64, reps int) (int, error) {
	if weight < 0 || reps < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, fmt.Errorf("%w: weight=%g reps=%d", ErrInvalidArgument, weight, reps)
	}
	if weight == 0 || reps == 0 {
		return 0, nil
	}
	est := math.Round(weight * (1 + float64(reps)/30))
	// float64(math.MaxInt) rounds up to 2^63, which no int can hold.
	if est >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: estimate for weight=%g reps=%d overflows", ErrInvalidArgument, weight, reps)
	}
	return int(est), nil
}

// BestSetEstimate returns the highest estimate over the sets of one exercise occurrence.
// Per-set reps are used when logged; otherwise the prescribed reps apply to every set.
// ok is false when the occurrence has no weights or every set estimates to 0.
func BestSetEstimate(ex models.Exercise) (best int, ok bool) {
	for i, w := range ex.Weight {
		reps := ex.Reps.Value()
		if i < len(ex.RepsPerSet) {
			reps = ex.RepsPerSet[i]
		}
		est, err := EstimateOneRepMax(w, reps)
		if err != nil {
			continue
		}
		if est > best {
			best = est
		}
	}
	return best, best > 0
}
