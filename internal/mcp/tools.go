package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/strength"
	"github.com/claude/fitstreak/internal/tracker"
)

var now = time.Now

// dateRange turns inclusive start/end dates into a half-open [from, to)
// window. A missing start reaches back defaultDays before end; with
// defaultDays 0 it stays open.
func dateRange(startStr, endStr string, defaultDays int) (from, to string, err error) {
	end := now()
	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return "", "", err
		}
	}
	if endStr != "" || defaultDays > 0 {
		to = end.AddDate(0, 0, 1).Format(models.DateLayout)
	}

	switch {
	case startStr != "":
		start, err := parseFlexTime(startStr)
		if err != nil {
			return "", "", err
		}
		from = start.Format(models.DateLayout)
	case defaultDays > 0:
		from = end.AddDate(0, 0, -defaultDays).Format(models.DateLayout)
	}
	return from, to, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(models.DateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List logged workout sessions with every exercise, set weights, reps and rest. Sessions are ordered by date."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD or ISO 8601). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date, inclusive. Defaults to today.")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Heaviest single-set weight ever logged for each exercise."),
)

var toolGetEstimatedMaxes = mcp.NewTool("get_estimated_maxes",
	mcp.WithDescription("Best estimated one-rep max (Epley formula) per exercise across all logged sets."),
)

var toolGetExerciseSeries = mcp.NewTool("get_exercise_series",
	mcp.WithDescription("Progression of one exercise over time: top set weight and total volume (weight x reps) per session, in date order."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name (e.g. 'Bench Press', 'Squat'). Case-sensitive.")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the first logged session.")),
	mcp.WithString("end", mcp.Description("End date, inclusive. Defaults to the last logged session.")),
)

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimate a one-rep max from a weight lifted for a number of reps using the Epley formula, rounded to the nearest integer."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
)

var toolLookupExercise = mcp.NewTool("lookup_exercise",
	mcp.WithDescription("Look up catalog metadata for an exercise, or list catalog exercises for a muscle group when no name is given."),
	mcp.WithString("name", mcp.Description("Exercise name")),
	mcp.WithString("muscle_group", mcp.Description("Filter the listing by muscle group"), mcp.Enum("Chest", "Back", "Shoulders", "Biceps", "Triceps", "Legs", "Abs", "Full Body")),
)

var toolGetRecoveryStatus = mcp.NewTool("get_recovery_status",
	mcp.WithDescription("Per muscle group: when it was last trained, how many rest days it needs and whether it is ready to train again today."),
)

// --- Tool handlers ---

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, err := dateRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.ListSessions(ctx, UserIDFromContext(ctx), from, to)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) getPersonalRecords(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prs, err := h.ds.PersonalRecords(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(prs)
}

func (h *handlers) getEstimatedMaxes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maxes, err := h.ds.EstimatedMaxes(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_estimated_maxes", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(maxes)
}

func (h *handlers) getExerciseSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	from, to, err := dateRange(req.GetString("start", ""), req.GetString("end", ""), 0)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	series, err := h.ds.ExerciseSeries(ctx, UserIDFromContext(ctx), exercise, from, to)
	if err != nil {
		h.log.Error("mcp get_exercise_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{
		"exercise": exercise,
		"points":   series,
	})
}

func (h *handlers) estimateOneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}

	est, err := strength.EstimateOneRepMax(weight, reps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"weight":    weight,
		"reps":      reps,
		"oneRepMax": est,
	})
}

func (h *handlers) lookupExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		entries, err := h.ds.CatalogEntries(ctx, req.GetString("muscle_group", ""))
		if err != nil {
			h.log.Error("mcp lookup_exercise", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		return jsonResult(entries)
	}

	meta, err := h.ds.CatalogEntry(ctx, name)
	if errors.Is(err, tracker.ErrNotFound) {
		return mcp.NewToolResultError("exercise " + name + " is not in the catalog; it is tracked under muscle group Other"), nil
	}
	if err != nil {
		h.log.Error("mcp lookup_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(meta)
}

func (h *handlers) getRecoveryStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.ds.RecoveryStatus(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_recovery_status", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(status)
}
