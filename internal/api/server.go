package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/halvard/cms/internal/api/handler"
	mw "github.com/halvard/cms/internal/api/middleware"
	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/storage"
)

type Server struct {
	router         chi.Router
	logger         zerolog.Logger
	services       *core.Services
	pool           *pgxpool.Pool
	temporalClient temporalclient.Client
	media          *storage.MediaStore
	cfg            *config.Config
}

// NewServer wires the HTTP API. media may be nil when no S3 backend is
// configured; the upload routes are then not mounted.
func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, temporalClient temporalclient.Client,
	media *storage.MediaStore, cfg *config.Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		logger:         logger,
		services:       core.NewServices(pool, cfg.SyncStatusTTL),
		pool:           pool,
		temporalClient: temporalClient,
		media:          media,
		cfg:            cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		domain := handler.NewDomain(s.services.Domain)
		r.Get("/domains", domain.List)
		r.Get("/domains/{name}", domain.Get)
		r.Patch("/domains/{name}", domain.Update)
		r.Delete("/domains/{name}", domain.Delete)

		syncHandler := handler.NewSync(s.services.SyncStatus, s.temporalClient)
		r.Get("/sync/status", syncHandler.Status)
		r.Post("/sync", syncHandler.Trigger)

		if s.media != nil {
			upload := handler.NewUpload(s.media)
			r.Post("/uploads/presign", upload.Presign)
			r.Get("/uploads/download", upload.Download)
		}
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
