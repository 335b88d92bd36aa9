package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/strength"
	"github.com/claude/fitstreak/internal/tracker"
)

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	user := userInfoFromContext(r)
	result, err := s.alpha.Ingest(r.Context(), r.Body, user.Login)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info := userInfoFromContext(r)
	if s.svc != nil {
		if _, err := s.svc.Login(r.Context(), info.Login, info.DisplayName); err != nil {
			s.log.Warn("recording login failed", "user", info.Login, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context(), userInfoFromContext(r).Login)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p.ID = userInfoFromContext(r).Login
	saved, err := s.svc.SaveProfile(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.svc.ListSessions(r.Context(), userInfoFromContext(r).Login, from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func sessionKey(r *http.Request) models.SessionKey {
	return models.SessionKey{
		UserID: userInfoFromContext(r).Login,
		Date:   chi.URLParam(r, "date"),
		PlanID: chi.URLParam(r, "plan"),
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.GetSession(r.Context(), sessionKey(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	key := sessionKey(r)
	session.Date, session.PlanID = key.Date, key.PlanID

	saved, err := s.svc.SaveSession(r.Context(), key.UserID, session)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handlePatchSession(w http.ResponseWriter, r *http.Request) {
	var update models.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	updated, err := s.svc.UpdateSession(r.Context(), sessionKey(r), update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	prs, err := s.svc.PersonalRecords(r.Context(), userInfoFromContext(r).Login)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prs)
}

func (s *Server) handleEstimates(w http.ResponseWriter, r *http.Request) {
	maxes, err := s.svc.EstimatedMaxes(r.Context(), userInfoFromContext(r).Login)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maxes)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	series, err := s.svc.ExerciseSeries(r.Context(), userInfoFromContext(r).Login, exercise, from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight must be a number"})
		return
	}
	reps, err := strconv.Atoi(q.Get("reps"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be an integer"})
		return
	}
	est, err := s.svc.OneRepMax(weight, reps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weight":    weight,
		"reps":      reps,
		"oneRepMax": est,
	})
}

func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.RecoveryStatus(r.Context(), userInfoFromContext(r).Login)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.svc.Catalog()
	if group := r.URL.Query().Get("group"); group != "" {
		writeJSON(w, http.StatusOK, cat.ByMuscleGroup(group))
		return
	}
	entries := make([]models.ExerciseMeta, 0, cat.Len())
	for _, name := range cat.Names() {
		m, _ := cat.LookupMeta(name)
		entries = append(entries, m)
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCatalogEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	meta, ok := s.svc.LookupExercise(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("exercise %q not in catalog", name)})
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// writeError maps service errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidSession),
		errors.Is(err, models.ErrInvalidProfile),
		errors.Is(err, strength.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads optional start/end query dates (YYYY-MM-DD) into a
// half-open [from, to) window. end is inclusive, so to is the day after it.
func parseDateRange(r *http.Request) (from, to string, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr != "" {
		if _, err := time.Parse(models.DateLayout, startStr); err != nil {
			return "", "", fmt.Errorf("start must be YYYY-MM-DD")
		}
		from = startStr
	}
	if endStr != "" {
		end, err := time.Parse(models.DateLayout, endStr)
		if err != nil {
			return "", "", fmt.Errorf("end must be YYYY-MM-DD")
		}
		to = end.AddDate(0, 0, 1).Format(models.DateLayout)
	}
	return from, to, nil
}
