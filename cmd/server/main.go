package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/app"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/infrastructure/worker"
)

// limiterCleanupInterval is how often idle per-IP limiters are dropped.
const limiterCleanupInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	services := app.NewServices(app.Deps{
		Config:  cfg,
		Pool:    pool,
		Redis:   redisClient,
		Logger:  log.Logger,
		Metrics: m,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         handler.NewAuthHandler(services.Users, services.JWT, m),
		UserHandler:         handler.NewUserHandler(services.Users),
		AccountHandler:      handler.NewAccountHandler(services.Accounts),
		TransferHandler:     handler.NewTransferHandler(services.Engine),
		NotificationHandler: handler.NewNotificationHandler(services.Notifications),
		RecurringHandler:    handler.NewRecurringHandler(services.Recurring),
		HealthHandler: handler.NewHealthHandler(
			pool,
			handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		TokenVerifier:    services.JWT,
		IdempotencyStore: services.IdempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           &log.Logger,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := services.Relay.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	var scheduler *worker.Periodic
	if cfg.SchedulerEnabled {
		scheduler = worker.NewPeriodic(services.Scheduler, worker.Config{
			Interval:     cfg.SchedulerInterval,
			RunOnStartup: cfg.SchedulerRunOnStartup,
			Logger:       &log.Logger,
		})
		scheduler.Start(gctx)
	} else {
		log.Warn().Msg("recurring transfer scheduler disabled")
	}

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if removed := rateLimiter.CleanupLimiters(); removed > 0 {
					log.Debug().Int("removed", removed).Msg("dropped idle rate limiters")
				}
			}
		}
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		if scheduler != nil {
			scheduler.Stop(cfg.HTTPShutdownTimeout)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
