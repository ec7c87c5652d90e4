package api

import (
	"log/slog"
	"net/http"

	"github.com/bgraves/pagemill/internal/cms"
	"github.com/bgraves/pagemill/internal/config"
	"github.com/bgraves/pagemill/internal/jobs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pagemill.
type Server struct {
	router       chi.Router
	orchestrator *jobs.Orchestrator
	cms          *cms.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *jobs.Orchestrator, cmsClient *cms.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		cms:          cmsClient,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)
		r.Get("/api/import/{jobID}/pages", s.handleImportPages)

		r.Get("/api/documents/{docID}/pages", s.handleDocumentPages)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
