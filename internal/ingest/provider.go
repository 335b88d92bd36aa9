// Package ingest holds what is shared between the export format providers.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsSaved    int `json:"sessions_saved"`
	ExercisesSaved   int `json:"exercises_saved"`
	SetsReceived     int `json:"sets_received"`
	WarmupsSkipped   int `json:"warmups_skipped"`

	Message string `json:"message,omitempty"`
}

// Add accumulates other into r.
func (r *Result) Add(other *Result) {
	if other == nil {
		return
	}
	r.SessionsReceived += other.SessionsReceived
	r.SessionsSaved += other.SessionsSaved
	r.ExercisesSaved += other.ExercisesSaved
	r.SetsReceived += other.SetsReceived
	r.WarmupsSkipped += other.WarmupsSkipped
}
