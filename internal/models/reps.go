package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RepsKind discriminates the two shapes a prescribed rep count can take.
type RepsKind uint8

const (
	// RepsFixed is a single rep count, e.g. 5.
	RepsFixed RepsKind = iota
	// RepsRange is a rep range, e.g. "8-12".
	RepsRange
)

// Reps is the prescribed reps of an exercise: either a fixed count or a range.
type Reps struct {
	Kind  RepsKind
	Count int // valid when Kind == RepsFixed
	Low   int // valid when Kind == RepsRange
	High  int // valid when Kind == RepsRange
}

// FixedReps returns a fixed rep count.
func FixedReps(n int) Reps {
	return Reps{Kind: RepsFixed, Count: n}
}

// RangeReps returns a rep range.
func RangeReps(low, high int) Reps {
	return Reps{Kind: RepsRange, Low: low, High: high}
}

// Value returns the scalar rep count used for volume math.
// Ranges use their lower bound.
func (r Reps) Value() int {
	if r.Kind == RepsRange {
		return r.Low
	}
	return r.Count
}

func (r Reps) String() string {
	if r.Kind == RepsRange {
		return fmt.Sprintf("%d-%d", r.Low, r.High)
	}
	return strconv.Itoa(r.Count)
}

// ParseReps parses "8", "8-12" or "8–12" (en dash).
func ParseReps(s string) (Reps, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reps{}, nil
	}
	s = strings.ReplaceAll(s, "–", "-")
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		low, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return Reps{}, fmt.Errorf("parsing reps range %q: %w", s, err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Reps{}, fmt.Errorf("parsing reps range %q: %w", s, err)
		}
		return RangeReps(low, high), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Reps{}, fmt.Errorf("parsing reps %q: %w", s, err)
	}
	return FixedReps(n), nil
}

// MarshalJSON encodes a fixed count as a number and a range as "low-high".
func (r Reps) MarshalJSON() ([]byte, error) {
	if r.Kind == RepsRange {
		return json.Marshal(r.String())
	}
	return json.Marshal(r.Count)
}

// UnmarshalJSON accepts either a number or a string.
func (r *Reps) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = FixedReps(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("reps must be a number or a string: %w", err)
	}
	parsed, err := ParseReps(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
