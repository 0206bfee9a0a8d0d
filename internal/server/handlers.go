package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/plates"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Pool.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlates solves a target weight into a plate loading.
// Query: target (required), bar and unit (default from settings/config).
func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	targetStr := r.URL.Query().Get("target")
	if targetStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target parameter required"})
		return
	}
	target, err := strconv.ParseFloat(targetStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must be a number"})
		return
	}

	unit := plates.Unit(r.URL.Query().Get("unit"))
	bar := plates.Bar(r.URL.Query().Get("bar"))
	if unit == "" || bar == "" {
		defUnit, defBar := s.displayDefaults(r)
		if unit == "" {
			unit = defUnit
		}
		if bar == "" {
			bar = defBar
		}
	}
	if !unit.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit must be lb or kg"})
		return
	}
	if !bar.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown bar variant"})
		return
	}

	loading := plates.Solve(target, bar, unit)
	if loading == nil {
		// Negative or non-finite target: nothing to display.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target must be a non-negative weight"})
		return
	}
	writeJSON(w, http.StatusOK, loading)
}

func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	snap, err := s.refresher.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"at":       snap.At,
		"recovery": snap.Recovery,
	})
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	snap, err := s.refresher.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"at":         snap.At,
		"suggestion": snap.Suggestion,
	})
}

// logSetRequest is the POST /api/v1/sets body.
type logSetRequest struct {
	Exercise    string     `json:"exercise"`
	Muscles     []string   `json:"muscles"`
	PerformedAt *time.Time `json:"performed_at,omitempty"`
	WeightKg    float64    `json:"weight_kg"`
	Reps        int        `json:"reps"`
	RIR         *float64   `json:"rir,omitempty"`
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if req.Exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise is required"})
		return
	}
	if req.Reps <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be positive"})
		return
	}
	if req.WeightKg < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight_kg must be non-negative"})
		return
	}

	var muscles []models.MuscleGroup
	for _, m := range req.Muscles {
		g, ok := models.ParseMuscleGroup(m)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown muscle group: " + m})
			return
		}
		muscles = append(muscles, g)
	}
	if len(muscles) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one muscle group is required"})
		return
	}

	performedAt := time.Now()
	if req.PerformedAt != nil {
		performedAt = *req.PerformedAt
	}

	set := models.SetLog{
		ID:          uuid.New(),
		Exercise:    req.Exercise,
		Muscles:     muscles,
		PerformedAt: performedAt,
		WeightKg:    req.WeightKg,
		Reps:        req.Reps,
		RIR:         req.RIR,
	}

	if _, err := s.db.InsertSets(r.Context(), []models.SetLog{set}); err != nil {
		s.log.Error("log set failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.refresher.SetsChanged(r.Context())
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleQuerySets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sets, err := s.db.QuerySets(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set id"})
		return
	}

	if err := s.db.DeleteSet(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.refresher.SetsChanged(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// displayDefaults resolves the default unit and bar: persisted settings win
// over config.
func (s *Server) displayDefaults(r *http.Request) (plates.Unit, plates.Bar) {
	unit := plates.Unit(s.training.Unit)
	bar := plates.Bar(s.training.Bar)
	if s.db == nil {
		return unit, bar
	}
	if settings, err := s.db.GetSettings(r.Context()); err == nil {
		if settings.Unit != "" {
			unit = plates.Unit(settings.Unit)
		}
		if settings.Bar != "" {
			bar = plates.Bar(settings.Bar)
		}
	}
	return unit, bar
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
