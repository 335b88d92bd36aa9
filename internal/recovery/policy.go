// Package recovery maps muscle groups to minimum rest days and reports
// per-group readiness from workout history.
package recovery

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/fitstreak/internal/models"
)

//go:embed recovery.yaml
var defaultTable []byte

// Policy is an immutable muscle group -> rest days table.
type Policy struct {
	days map[string]int
}

// Default returns the built-in policy.
func Default() (*Policy, error) {
	return Load(bytes.NewReader(defaultTable))
}

// LoadFile reads a policy from YAML. An empty path loads the built-in table.
func LoadFile(path string) (*Policy, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recovery policy: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML table of the form {groups: {Chest: 2, ...}}.
func Load(r io.Reader) (*Policy, error) {
	var doc struct {
		Groups map[string]int `yaml:"groups"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding recovery policy: %w", err)
	}
	for g, d := range doc.Groups {
		if d < 0 {
			return nil, fmt.Errorf("recovery days for %q must not be negative", g)
		}
	}
	if doc.Groups == nil {
		doc.Groups = map[string]int{}
	}
	return &Policy{days: doc.Groups}, nil
}

// Days returns the minimum rest days for group. ok is false for groups the
// policy does not cover; callers treat those as unconstrained.
func (p *Policy) Days(group string) (int, bool) {
	d, ok := p.days[group]
	return d, ok
}

// MaxDays returns the longest rest period in the policy, or 0 when it is empty.
func (p *Policy) MaxDays() int {
	longest := 0
	for _, d := range p.days {
		longest = max(longest, d)
	}
	return longest
}

// Groups returns the covered muscle groups in sorted order.
func (p *Policy) Groups() []string {
	out := make([]string, 0, len(p.days))
	for g := range p.days {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// GroupLookup resolves an exercise name to its primary muscle group.
type GroupLookup interface {
	LookupMuscleGroup(name string) string
}

// GroupStatus is the readiness of one muscle group.
type GroupStatus struct {
	MuscleGroup   string `json:"muscleGroup"`
	LastTrained   string `json:"lastTrained"`
	RecoveryDays  int    `json:"recoveryDays"`
	ReadyOn       string `json:"readyOn"`
	Recovered     bool   `json:"recovered"`
	DaysRemaining int    `json:"daysRemaining"`
}

// Status reports readiness for every muscle group trained in history, sorted
// by group. The group of an exercise is the one logged with it, falling back
// to lookup. Sessions with unparseable dates are ignored.
func (p *Policy) Status(history []models.WorkoutSession, lookup GroupLookup, now time.Time) []GroupStatus {
	last := make(map[string]time.Time)
	for _, s := range history {
		day, err := s.Day()
		if err != nil {
			continue
		}
		for _, ex := range s.Exercises {
			group := ex.MuscleGroup
			if group == "" && lookup != nil {
				group = lookup.LookupMuscleGroup(ex.Name)
			}
			if group == "" {
				continue
			}
			if prev, ok := last[group]; !ok || day.After(prev) {
				last[group] = day
			}
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]GroupStatus, 0, len(last))
	for group, trained := range last {
		days, _ := p.Days(group)
		ready := trained.AddDate(0, 0, days)
		st := GroupStatus{
			MuscleGroup:  group,
			LastTrained:  trained.Format(models.DateLayout),
			RecoveryDays: days,
			ReadyOn:      ready.Format(models.DateLayout),
			Recovered:    !today.Before(ready),
		}
		if !st.Recovered {
			st.DaysRemaining = int(ready.Sub(today).Hours() / 24)
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MuscleGroup < out[j].MuscleGroup })
	return out
}
