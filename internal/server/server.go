// Package server wires stores, services and handlers into the HTTP router.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/config"
	"github.com/dukerupert/homebase/internal/handler"
	"github.com/dukerupert/homebase/internal/middleware"
	"github.com/dukerupert/homebase/internal/observability"
	"github.com/dukerupert/homebase/internal/store"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

type Server struct {
	cfg         *config.Config
	authSvc     *auth.Service
	authH       *handler.AuthHandler
	categoryH   *handler.CategoryHandler
	systemH     *handler.SystemHandler
	rateLimiter *middleware.RateLimiter
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	userStore := store.NewUserStore(db)
	householdStore := store.NewHouseholdStore(db)
	categoryStore := store.NewCategoryStore(db)

	metrics := observability.NewMetrics()

	authSvc, err := auth.NewService(
		userStore,
		householdStore,
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		logger.With("component", "auth"),
	)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:         cfg,
		authSvc:     authSvc,
		authH:       handler.NewAuthHandler(authSvc, metrics, logger.With("component", "auth_handler")),
		categoryH:   handler.NewCategoryHandler(categoryStore, logger.With("component", "category")),
		systemH:     handler.NewSystemHandler(db, logger.With("component", "system")),
		rateLimiter: middleware.NewRateLimiter(),
		metrics:     metrics,
		logger:      logger,
	}, nil
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Metrics returns the Prometheus metrics of the server.
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	s.handle(mux, "GET /health", http.HandlerFunc(s.systemH.Health))
	s.handle(mux, "GET /api", http.HandlerFunc(s.systemH.Index))
	s.handle(mux, "POST /api/auth/register", s.rateLimited(s.authH.Register))
	s.handle(mux, "POST /api/auth/login", s.rateLimited(s.authH.Login))
	s.handle(mux, "GET /api/auth/me", http.HandlerFunc(s.authH.Me))
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Protected routes
	requireAuth := middleware.RequireAuth(s.authSvc.Tokens())
	s.handle(mux, "GET /api/categories", requireAuth(http.HandlerFunc(s.categoryH.List)))

	s.handle(mux, "/", http.HandlerFunc(s.systemH.NotFound))

	var h http.Handler = mux
	h = middleware.SecureHeaders(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

// handle registers h under pattern with per-route metrics.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, middleware.Instrument(s.metrics, pattern, h))
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	keyFunc := middleware.RemoteIP
	if s.cfg.HTTP.TrustProxy {
		keyFunc = middleware.RealIP
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, authRateLimit, authRateWindow)(h)
}
