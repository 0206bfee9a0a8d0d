package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/plates"
	"github.com/claude/ironlog/internal/storage"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		// Nothing persisted yet: serve the configured defaults.
		writeJSON(w, http.StatusOK, &storage.Settings{
			Unit:        s.training.Unit,
			Bar:         s.training.Bar,
			Threshold:   s.training.Threshold,
			WindowHours: s.training.WindowHours,
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings storage.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if msg := validateSettings(&settings); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	if err := s.db.PutSettings(r.Context(), &settings); err != nil {
		s.log.Error("put settings failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.refresher.SetsChanged(r.Context())
	writeJSON(w, http.StatusOK, &settings)
}

// validateSettings returns an error message, or "" when the settings are
// acceptable.
func validateSettings(s *storage.Settings) string {
	if !plates.Unit(s.Unit).Valid() {
		return "unit must be lb or kg"
	}
	if !plates.Bar(s.Bar).Valid() {
		return "unknown bar variant"
	}
	if s.Threshold <= 0 || s.Threshold > 1 {
		return "freshness_threshold must be in (0,1]"
	}
	for muscle, hours := range s.WindowHours {
		if _, ok := models.ParseMuscleGroup(muscle); !ok {
			return "unknown muscle group: " + muscle
		}
		if hours <= 0 {
			return "recovery window for " + muscle + " must be positive"
		}
	}
	return ""
}
