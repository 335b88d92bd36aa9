package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func defaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return c
}

// TestLookupMuscleGroupKnown verifies catalog hits return the dataset group.
func TestLookupMuscleGroupKnown(t *testing.T) {
	c := defaultCatalog(t)
	tests := map[string]string{
		"Bench Press":    "Chest",
		"Squat":          "Legs",
		"Deadlift":       "Back",
		"Barbell Curl":   "Biceps",
		"Overhead Press": "Shoulders",
		"Burpee":         "Full Body",
	}
	for name, want := range tests {
		if got := c.LookupMuscleGroup(name); got != want {
			t.Errorf("LookupMuscleGroup(%q) = %q, want %q", name, got, want)
		}
	}
}

// TestLookupMuscleGroupUnknown verifies misses fall back to "Other".
func TestLookupMuscleGroupUnknown(t *testing.T) {
	c := defaultCatalog(t)
	if got := c.LookupMuscleGroup("NonexistentExercise"); got != "Other" {
		t.Errorf("got %q, want Other", got)
	}
	if got := c.LookupMuscleGroup("bench press"); got != "Other" {
		t.Errorf("lookup must be case-sensitive, got %q", got)
	}
}

// TestLookupMeta verifies full entries for hits and an explicit miss.
func TestLookupMeta(t *testing.T) {
	c := defaultCatalog(t)
	m, ok := c.LookupMeta("Bench Press")
	if !ok {
		t.Fatal("Bench Press missing from catalog")
	}
	if m.SubGroup != "Middle Chest" || m.Difficulty != "Intermediate" {
		t.Errorf("meta = %+v", m)
	}
	if len(m.SecondaryMuscleGroups) == 0 {
		t.Error("expected secondary muscle groups")
	}

	if _, ok := c.LookupMeta("NonexistentExercise"); ok {
		t.Error("expected ok=false for unknown exercise")
	}
}

// TestLookupIdempotent verifies repeated lookups agree.
func TestLookupIdempotent(t *testing.T) {
	c := defaultCatalog(t)
	for i := 0; i < 3; i++ {
		if c.LookupMuscleGroup("Squat") != "Legs" {
			t.Fatal("lookup changed between calls")
		}
	}
}

// TestNamesSortedCopy verifies Names is sorted and callers cannot mutate the catalog.
func TestNamesSortedCopy(t *testing.T) {
	c := defaultCatalog(t)
	names := c.Names()
	if len(names) != c.Len() {
		t.Fatalf("len(Names) = %d, Len = %d", len(names), c.Len())
	}
	if !sort.StringsAreSorted(names) {
		t.Error("Names not sorted")
	}
	names[0] = "mutated"
	if c.Names()[0] == "mutated" {
		t.Error("Names returned internal slice")
	}
}

// TestByMuscleGroup verifies filtering by primary group.
func TestByMuscleGroup(t *testing.T) {
	c := defaultCatalog(t)
	legs := c.ByMuscleGroup("Legs")
	if len(legs) == 0 {
		t.Fatal("no Legs exercises")
	}
	for _, m := range legs {
		if m.MuscleGroup != "Legs" {
			t.Errorf("%s has group %s", m.Name, m.MuscleGroup)
		}
	}
	if got := c.ByMuscleGroup("Nope"); got == nil || len(got) != 0 {
		t.Errorf("unknown group = %v, want empty slice", got)
	}
}

// TestLoadDuplicate verifies a dataset with a repeated name is rejected.
func TestLoadDuplicate(t *testing.T) {
	data := `
exercises:
  - name: Squat
    muscle_group: Legs
  - name: Squat
    muscle_group: Back
`
	if _, err := Load(strings.NewReader(data)); err == nil {
		t.Fatal("expected duplicate error")
	}
}

// TestLoadFileOverride verifies a custom dataset replaces the embedded one.
func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	data := "exercises:\n  - name: Zercher Squat\n    muscle_group: Legs\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 1 || c.LookupMuscleGroup("Zercher Squat") != "Legs" {
		t.Errorf("unexpected catalog: %v", c.Names())
	}
	if c.LookupMuscleGroup("Bench Press") != "Other" {
		t.Error("override must not include embedded entries")
	}
}

// TestLoadFileEmptyPath verifies an empty path falls back to the embedded dataset.
func TestLoadFileEmptyPath(t *testing.T) {
	c, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() < 20 {
		t.Errorf("Len = %d, expected the embedded dataset", c.Len())
	}
}
