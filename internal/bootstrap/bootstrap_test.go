package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/fitstreak/internal/config"
	"github.com/claude/fitstreak/internal/models"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestMemoryStoreService verifies the memory driver yields a working service
// with the embedded datasets.
func TestMemoryStoreService(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	ctx := context.Background()

	store, closeFn, err := OpenStore(ctx, cfg, "", nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	svc, err := NewService(cfg, store, discard())
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.MuscleGroup("Squat"); got != "Legs" {
		t.Errorf("MuscleGroup(Squat) = %q, want Legs", got)
	}

	s := models.WorkoutSession{Date: "2024-01-01", Exercises: []models.Exercise{
		{Name: "Squat", Sets: 1, Reps: models.FixedReps(5), Weight: []float64{100}},
	}}
	if _, err := svc.SaveSession(ctx, "local", s); err != nil {
		t.Fatal(err)
	}
	prs, err := svc.PersonalRecords(ctx, "local")
	if err != nil || prs["Squat"] != 100 {
		t.Errorf("records = %v, err = %v", prs, err)
	}
}

// TestNewServiceCustomCatalog verifies exercises_path replaces the embedded catalog.
func TestNewServiceCustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exercises.yaml")
	data := "exercises:\n  - name: Sled Push\n    muscle_group: Legs\n    sub_group: Quadriceps\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Catalog: config.CatalogConfig{ExercisesPath: path}}

	svc, err := NewService(cfg, nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	if svc.Catalog().Len() != 1 {
		t.Errorf("catalog entries = %d, want 1", svc.Catalog().Len())
	}
	if got := svc.MuscleGroup("Squat"); got != "Other" {
		t.Errorf("MuscleGroup(Squat) = %q, want Other", got)
	}
}

// TestNewServiceBadPath verifies a missing dataset file is an error.
func TestNewServiceBadPath(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{RecoveryPath: filepath.Join(t.TempDir(), "missing.yaml")}}
	if _, err := NewService(cfg, nil, discard()); err == nil {
		t.Fatal("expected error for missing recovery file")
	}
}

// TestOpenStoreUnknownDriver verifies unknown drivers are rejected.
func TestOpenStoreUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	if _, _, err := OpenStore(context.Background(), cfg, "", nil, discard()); err == nil {
		t.Fatal("expected error")
	}
}
