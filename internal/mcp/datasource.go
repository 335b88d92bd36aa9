package mcp

import (
	"context"

	"github.com/claude/fitstreak/internal/history"
	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/recovery"
	"github.com/claude/fitstreak/internal/tracker"
)

// DataSource abstracts the data layer for MCP tools. Both Local (in-process
// service) and HTTPClient (remote via REST API) satisfy this interface.
// Date ranges are half-open [from, to); an empty bound is open.
type DataSource interface {
	PersonalRecords(ctx context.Context, userID string) (map[string]float64, error)
	EstimatedMaxes(ctx context.Context, userID string) (map[string]int, error)
	ExerciseSeries(ctx context.Context, userID, exercise, from, to string) ([]history.SeriesPoint, error)
	RecoveryStatus(ctx context.Context, userID string) ([]recovery.GroupStatus, error)
	ListSessions(ctx context.Context, userID, from, to string) ([]models.WorkoutSession, error)
	CatalogEntries(ctx context.Context, group string) ([]models.ExerciseMeta, error)
	CatalogEntry(ctx context.Context, name string) (models.ExerciseMeta, error)
}

// Local serves MCP requests from an in-process tracker.Service.
type Local struct {
	*tracker.Service
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

// CatalogEntries lists catalog entries, optionally restricted to one muscle group.
func (l Local) CatalogEntries(_ context.Context, group string) ([]models.ExerciseMeta, error) {
	cat := l.Catalog()
	if group != "" {
		return cat.ByMuscleGroup(group), nil
	}
	entries := make([]models.ExerciseMeta, 0, cat.Len())
	for _, name := range cat.Names() {
		m, _ := cat.LookupMeta(name)
		entries = append(entries, m)
	}
	return entries, nil
}

// CatalogEntry returns tracker.ErrNotFound for names outside the catalog.
func (l Local) CatalogEntry(_ context.Context, name string) (models.ExerciseMeta, error) {
	m, ok := l.LookupExercise(name)
	if !ok {
		return models.ExerciseMeta{}, tracker.ErrNotFound
	}
	return m, nil
}
