// Package api provides the HTTP API server and handlers for the Shelfmark application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shelfmark/shelfmark-server/internal/metrics"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	metrics         metrics.Recorder
	authRateLimiter *RateLimiter
	logger          *slog.Logger
}

// Options configures optional server behavior.
type Options struct {
	// AllowedOrigins lists CORS origins permitted to call the API.
	// Empty means allow any origin.
	AllowedOrigins []string
	// MetricsGatherer serves the /metrics endpoint when set.
	MetricsGatherer prometheus.Gatherer
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, recorder metrics.Recorder, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:           store,
		services:        services,
		router:          chi.NewRouter(),
		metrics:         recorder,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
		logger:          logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Shelfmark API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerBookRoutes()
	s.registerStatsRoutes()
	s.registerSettingsRoutes()

	if opts.MetricsGatherer != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.Handler(opts.MetricsGatherer))
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Compress(5))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(metricsMiddleware(s.metrics))
	s.router.Use(s.authRateLimitMiddleware)
	s.router.Use(authMiddleware(s.services.Auth))
}
