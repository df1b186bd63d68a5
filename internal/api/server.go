package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/oracle"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/qa"
	"github.com/dgallion1/docqa/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for docqa.
type Server struct {
	router    chi.Router
	qa        *qa.Service
	sessions  *session.Store
	extractor *parser.Extractor
	stats     *oracle.LatencyStats
	log       *slog.Logger
	cfg       config.Config
	about     aboutCache
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *qa.Service, sessions *session.Store, stats *oracle.LatencyStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		qa:        svc,
		sessions:  sessions,
		extractor: &parser.Extractor{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		stats:     stats,
		log:       log,
		cfg:       cfg,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleAbout)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/ask", s.handleAsk)
		r.Get("/stats/oracle", s.handleOracleStats)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/context", s.handleSetContext)
			r.Post("/upload", s.handleUpload)
			r.Post("/ask", s.handleSessionAsk)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
