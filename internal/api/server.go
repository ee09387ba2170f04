package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/bomdiff/internal/archive"
	"github.com/dgallion1/bomdiff/internal/config"
	"github.com/dgallion1/bomdiff/internal/metrics"
	"github.com/dgallion1/bomdiff/internal/pipeline"
	"github.com/dgallion1/bomdiff/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for bomdiff.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	archive      *archive.Client
	stats        *stats.CompareStats
	metrics      *metrics.Registry
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. arc is nil when no
// archive is configured.
func NewServer(orch *pipeline.Orchestrator, arc *archive.Client, st *stats.CompareStats, m *metrics.Registry, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		archive:      arc,
		stats:        st,
		metrics:      m,
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
	r.Use(MetricsMiddleware(s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/compare", s.handleCompare)
		r.Post("/api/compare/jobs", s.handleSubmitCompare)
		r.Get("/api/compare/jobs/{jobID}/status", s.handleJobStatus)
		r.Get("/api/compare/jobs/{jobID}/report", s.handleJobReport)
		r.Get("/api/stats/compare", s.handleCompareStats)

		r.Get("/api/reports", s.handleListReports)
		r.Get("/api/reports/{reportID}", s.handleGetReport)
		r.Delete("/api/reports/{reportID}", s.handleDeleteReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
