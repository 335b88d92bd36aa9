package docstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/tracker"
)

// TestSessionDocID verifies the {date}_{plan} key and the default plan.
func TestSessionDocID(t *testing.T) {
	if got := sessionDocID(models.SessionKey{Date: "2024-01-01", PlanID: "push"}); got != "2024-01-01_push" {
		t.Errorf("got %q", got)
	}
	if got := sessionDocID(models.SessionKey{Date: "2024-01-01"}); got != "2024-01-01_default" {
		t.Errorf("got %q", got)
	}
}

// TestFirestoreToExerciseNativeTypes verifies decoding of the value types Firestore
// hands back: int64 for integers and []interface{} for arrays.
func TestFirestoreToExerciseNativeTypes(t *testing.T) {
	ex := firestoreToExercise(map[string]interface{}{
		"name":         "Squat",
		"sets":         int64(3),
		"reps":         int64(5),
		"weight":       []interface{}{int64(100), 102.5, "junk"},
		"reps_per_set": []interface{}{int64(5), int64(5)},
		"equipment":    []interface{}{"Barbell"},
		"completed":    true,
	})
	if ex.Sets != 3 || ex.Reps != models.FixedReps(5) || !ex.Completed {
		t.Errorf("exercise = %+v", ex)
	}
	if len(ex.Weight) != 2 || ex.Weight[0] != 100 || ex.Weight[1] != 102.5 {
		t.Errorf("weight = %v", ex.Weight)
	}
	if len(ex.RepsPerSet) != 2 || len(ex.Equipment) != 1 {
		t.Errorf("exercise = %+v", ex)
	}
}

// TestExerciseRepsRange verifies rep ranges are written as strings and read back as ranges.
func TestExerciseRepsRange(t *testing.T) {
	docs := exercisesToFirestore([]models.Exercise{{Name: "Curl", Sets: 3, Reps: models.RangeReps(8, 12)}})
	m := docs[0].(map[string]interface{})
	if m["reps"] != "8-12" {
		t.Fatalf("reps stored as %v", m["reps"])
	}
	if got := firestoreToExercise(m); got.Reps != models.RangeReps(8, 12) {
		t.Errorf("reps = %+v", got.Reps)
	}
}

// TestFirestoreToSessionEmpty verifies a sparse document decodes to a usable session.
func TestFirestoreToSessionEmpty(t *testing.T) {
	s := firestoreToSession(map[string]interface{}{"date": "2024-01-01"})
	if s.Date != "2024-01-01" || s.Exercises == nil || len(s.Exercises) != 0 {
		t.Errorf("session = %+v", s)
	}
}

// TestSessionUpdates verifies only set fields become updates, plus the timestamp.
func TestSessionUpdates(t *testing.T) {
	notes := "felt strong"
	ups := sessionUpdates(models.SessionUpdate{Notes: &notes})
	if len(ups) != 2 {
		t.Fatalf("updates = %+v", ups)
	}
	if ups[0].Path != "updated_at" || ups[1].Path != "notes" || ups[1].Value != notes {
		t.Errorf("updates = %+v", ups)
	}
}

// TestProfileConverters verifies optional numbers survive and absent ones stay nil.
func TestProfileConverters(t *testing.T) {
	age := 30
	m := profileToFirestore(models.UserProfile{Name: "Alice", Age: &age})
	if m["height"] != nil {
		t.Errorf("height = %v, want nil", m["height"])
	}
	m["age"] = int64(30)
	m["created_at"] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := firestoreToProfile(m)
	if p.Age == nil || *p.Age != 30 || p.HeightCm != nil || p.Name != "Alice" || p.CreatedAt.IsZero() {
		t.Errorf("profile = %+v", p)
	}
}

// TestNotFound verifies gRPC NotFound maps onto tracker.ErrNotFound.
func TestNotFound(t *testing.T) {
	if !errors.Is(notFound(status.Error(codes.NotFound, "missing")), tracker.ErrNotFound) {
		t.Error("NotFound not mapped")
	}
	other := status.Error(codes.Unavailable, "down")
	if notFound(other) != other {
		t.Error("other codes must pass through")
	}
}

// TestStoreEmulator exercises the store against the Firestore emulator.
func TestStoreEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "fitstreak-test")
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	s := &Store{Client: client}

	uid := "emulator-" + time.Now().Format("150405.000000")
	key := models.SessionKey{UserID: uid, Date: "2024-01-03", PlanID: "legs"}
	if err := s.SaveSession(ctx, key, models.WorkoutSession{
		Exercises: []models.Exercise{{Name: "Squat", Sets: 1, Reps: models.FixedReps(5), Weight: []float64{100}}},
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := s.SaveSession(ctx, models.SessionKey{UserID: uid, Date: "2024-01-01", PlanID: "push"}, models.WorkoutSession{}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSession(ctx, key)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.PlanID != "legs" || got.Exercises[0].Weight[0] != 100 {
		t.Errorf("session = %+v", got)
	}

	list, err := s.ListSessions(ctx, uid, "2024-01-01", "2024-01-03")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Date != "2024-01-01" {
		t.Errorf("list = %+v", list)
	}

	notes := "deep"
	updated, err := s.UpdateSession(ctx, key, models.SessionUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if updated.Notes != "deep" || len(updated.Exercises) != 1 {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := s.GetSession(ctx, models.SessionKey{UserID: uid, Date: "1999-01-01", PlanID: "x"}); !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	p, err := s.TouchLogin(ctx, uid, "Emu")
	if err != nil {
		t.Fatalf("TouchLogin: %v", err)
	}
	if p.Name != "Emu" || p.CreatedAt.IsZero() {
		t.Errorf("profile = %+v", p)
	}
}
