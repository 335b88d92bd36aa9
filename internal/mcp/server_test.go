package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitstreak/internal/catalog"
	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/recovery"
	"github.com/claude/fitstreak/internal/tracker"
)

func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	pol, err := recovery.Default()
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := tracker.New(tracker.NewMemStore(), cat, pol, tracker.CacheConfig{}, log)

	ctx := context.Background()
	for _, s := range []models.WorkoutSession{
		{Date: "2024-01-01", Exercises: []models.Exercise{
			{Name: "Squat", Sets: 3, Reps: models.FixedReps(5), Weight: []float64{100, 105, 110}},
		}},
		{Date: "2024-01-03", Exercises: []models.Exercise{
			{Name: "Squat", Sets: 2, Reps: models.FixedReps(8), Weight: []float64{100, 100}},
		}},
	} {
		if _, err := svc.SaveSession(ctx, DefaultUserID, s); err != nil {
			t.Fatal(err)
		}
	}
	return &handlers{ds: Local{svc}, log: log}
}

func callTool(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned error: %v", err)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Content[0])
	}
	return text.Text, res.IsError
}

// TestUserIDFromContextDefault verifies the local user when no value is set.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := UserIDFromContext(context.Background()); id != "local" {
		t.Errorf("UserIDFromContext(empty) = %q, want local", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "alice@example.com")
	if id := UserIDFromContext(ctx); id != "alice@example.com" {
		t.Errorf("UserIDFromContext = %q", id)
	}
}

// TestDateRange verifies defaults, inclusive ends and parsing.
func TestDateRange(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	from, to, err := dateRange("", "", 14)
	if err != nil {
		t.Fatal(err)
	}
	if from != "2024-03-01" || to != "2024-03-16" {
		t.Errorf("default range = [%s, %s)", from, to)
	}

	from, to, err = dateRange("", "", 0)
	if err != nil || from != "" || to != "" {
		t.Errorf("open range = %q %q %v", from, to, err)
	}

	from, to, err = dateRange("2024-01-01", "2024-01-31", 0)
	if err != nil || from != "2024-01-01" || to != "2024-02-01" {
		t.Errorf("explicit range = %q %q %v", from, to, err)
	}

	from, _, err = dateRange("2024-06-15T10:30:00Z", "", 7)
	if err != nil || from != "2024-06-15" {
		t.Errorf("RFC3339 start = %q %v", from, err)
	}

	if _, _, err := dateRange("not-a-date", "", 7); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestNewRegistersTools verifies every tool is exposed by name.
func TestNewRegistersTools(t *testing.T) {
	s := New(Local{}, "test", slog.Default())
	for _, name := range []string{
		"get_sessions", "get_personal_records", "get_estimated_maxes",
		"get_exercise_series", "estimate_one_rep_max", "lookup_exercise", "get_recovery_status",
	} {
		if s.GetTool(name) == nil {
			t.Errorf("tool %s not registered", name)
		}
	}
}

// TestToolPersonalRecords verifies records come back as JSON for the default user.
func TestToolPersonalRecords(t *testing.T) {
	h := newTestHandlers(t)
	text, isErr := callTool(t, h.getPersonalRecords, nil)
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var prs map[string]float64
	if err := json.Unmarshal([]byte(text), &prs); err != nil {
		t.Fatal(err)
	}
	if prs["Squat"] != 110 {
		t.Errorf("records = %v", prs)
	}
}

// TestToolExerciseSeries verifies the series tool and its required argument.
func TestToolExerciseSeries(t *testing.T) {
	h := newTestHandlers(t)

	if _, isErr := callTool(t, h.getExerciseSeries, map[string]any{}); !isErr {
		t.Error("missing exercise should be a tool error")
	}

	text, isErr := callTool(t, h.getExerciseSeries, map[string]any{"exercise": "Squat"})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out struct {
		Points []struct {
			Date   string  `json:"date"`
			Volume float64 `json:"volume"`
		} `json:"points"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Points) != 2 || out.Points[1].Volume != 1600 {
		t.Errorf("points = %+v", out.Points)
	}
}

// TestToolEstimateOneRepMax verifies the Epley estimate and negative input handling.
func TestToolEstimateOneRepMax(t *testing.T) {
	h := newTestHandlers(t)

	text, isErr := callTool(t, h.estimateOneRepMax, map[string]any{"weight": 100.0, "reps": 10.0})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out struct {
		OneRepMax int `json:"oneRepMax"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if out.OneRepMax != 133 {
		t.Errorf("oneRepMax = %d, want 133", out.OneRepMax)
	}

	if _, isErr := callTool(t, h.estimateOneRepMax, map[string]any{"weight": -5.0, "reps": 3.0}); !isErr {
		t.Error("negative weight should be a tool error")
	}
}

// TestToolLookupExercise verifies single lookups, group listings and misses.
func TestToolLookupExercise(t *testing.T) {
	h := newTestHandlers(t)

	text, isErr := callTool(t, h.lookupExercise, map[string]any{"name": "Bench Press"})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var meta models.ExerciseMeta
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.MuscleGroup != "Chest" {
		t.Errorf("meta = %+v", meta)
	}

	if _, isErr := callTool(t, h.lookupExercise, map[string]any{"name": "NonexistentExercise"}); !isErr {
		t.Error("unknown exercise should be a tool error")
	}

	text, _ = callTool(t, h.lookupExercise, map[string]any{"muscle_group": "Legs"})
	var legs []models.ExerciseMeta
	if err := json.Unmarshal([]byte(text), &legs); err != nil {
		t.Fatal(err)
	}
	if len(legs) == 0 {
		t.Error("expected Legs exercises")
	}
	for _, m := range legs {
		if m.MuscleGroup != "Legs" {
			t.Errorf("%s listed under Legs", m.Name)
		}
	}
}

// TestResourceCatalog verifies the catalog resource returns JSON text for the requested URI.
func TestResourceCatalog(t *testing.T) {
	h := newTestHandlers(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = "fitstreak://catalog"

	contents, err := h.exerciseCatalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T", contents[0])
	}
	if text.URI != "fitstreak://catalog" || text.MIMEType != "application/json" {
		t.Errorf("contents = %+v", text)
	}
	var entries []models.ExerciseMeta
	if err := json.Unmarshal([]byte(text.Text), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) < 20 {
		t.Errorf("entries = %d", len(entries))
	}
}
