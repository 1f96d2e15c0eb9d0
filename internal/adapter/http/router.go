package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	AccountHandler      *handler.AccountHandler
	TransferHandler     *handler.TransferHandler
	NotificationHandler *handler.NotificationHandler
	RecurringHandler    *handler.RecurringHandler
	HealthHandler       *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier

	// Optional.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.Recovery(*cfg.Logger))
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	} else {
		r.Use(middleware.Recovery(log.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/user/signup", cfg.AuthHandler.Signup)
		r.Post("/user/signin", cfg.AuthHandler.Signin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenVerifier))

			// Keys are scoped per caller, so this runs after Auth.
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Route("/user", func(r chi.Router) {
				r.Get("/me", cfg.UserHandler.Me)
				r.Put("/", cfg.UserHandler.Update)
				r.Get("/bulk", cfg.UserHandler.Search)
			})

			r.Route("/account", func(r chi.Router) {
				r.Get("/balance", cfg.AccountHandler.Balance)
				r.Post("/transfer", cfg.TransferHandler.Create)
				r.Get("/transactions", cfg.AccountHandler.Transactions)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.NotificationHandler.List)
				r.Patch("/read-all", cfg.NotificationHandler.MarkAllRead)
				r.Patch("/{id}/read", cfg.NotificationHandler.MarkRead)
			})

			r.Route("/recurring", func(r chi.Router) {
				r.Post("/", cfg.RecurringHandler.Create)
				r.Get("/", cfg.RecurringHandler.List)
				r.Patch("/{id}/status", cfg.RecurringHandler.UpdateStatus)
				r.Delete("/{id}", cfg.RecurringHandler.Delete)
			})
		})
	})

	return r
}
