package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/plates"
)

func plateServer() *Server {
	return &Server{training: config.TrainingConfig{Unit: "lb", Bar: "olympic"}}
}

// TestHandlePlatesExact verifies the plate endpoint returns the solved
// loading for an exact target.
func TestHandlePlatesExact(t *testing.T) {
	s := plateServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plates?target=225", nil)
	rec := httptest.NewRecorder()

	s.handlePlates(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var l plates.Loading
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if l.Total != 225 || !l.Exact {
		t.Errorf("loading = %+v, want exact 225", l)
	}
	if len(l.Plates) != 3 {
		t.Errorf("plates = %v, want 45/35/10", l.Plates)
	}
}

// TestHandlePlatesExplicitUnit verifies query params override the configured
// defaults.
func TestHandlePlatesExplicitUnit(t *testing.T) {
	s := plateServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plates?target=100&unit=kg&bar=olympic", nil)
	rec := httptest.NewRecorder()

	s.handlePlates(rec, req)

	var l plates.Loading
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if l.BarWeight != 20 {
		t.Errorf("bar weight = %v, want 20 kg", l.BarWeight)
	}
	if l.PerSide != 40 {
		t.Errorf("per side = %v, want 40", l.PerSide)
	}
}

// TestHandlePlatesBadInput verifies the invalid-input taxonomy: missing,
// non-numeric, and negative targets all map to 400 with no loading.
func TestHandlePlatesBadInput(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing target", "/api/v1/plates"},
		{"non-numeric", "/api/v1/plates?target=abc"},
		{"negative", "/api/v1/plates?target=-135"},
		{"bad unit", "/api/v1/plates?target=225&unit=stone"},
		{"bad bar", "/api/v1/plates?target=225&bar=bamboo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := plateServer()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			s.handlePlates(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestHandlePlatesBarOnly verifies a sub-bar target reports the bar weight.
func TestHandlePlatesBarOnly(t *testing.T) {
	s := plateServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plates?target=30", nil)
	rec := httptest.NewRecorder()

	s.handlePlates(rec, req)

	var l plates.Loading
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if l.Total != 45 || len(l.Plates) != 0 {
		t.Errorf("loading = %+v, want bar-only 45", l)
	}
}
