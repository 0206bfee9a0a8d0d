package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/refresh"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	refresher *refresh.Refresher
	training  config.TrainingConfig
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, refresher *refresh.Refresher, training config.TrainingConfig, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		refresher: refresher,
		training:  training,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints (no auth — tsnet handles access when enabled)
	s.router.Get("/api/v1/healthz", s.handleHealthz)
	s.router.Get("/api/v1/plates", s.handlePlates)
	s.router.Get("/api/v1/recovery", s.handleRecovery)
	s.router.Get("/api/v1/suggestion", s.handleSuggestion)
	s.router.Get("/api/v1/sets", s.handleQuerySets)
	s.router.Get("/api/v1/settings", s.handleGetSettings)
	s.router.Get("/api/v1/stats", s.handleStats)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sets", s.handleLogSet)
		r.Delete("/api/v1/sets/{id}", s.handleDeleteSet)
		r.Put("/api/v1/settings", s.handlePutSettings)
	})
}
