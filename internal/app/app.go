// Package app wires repositories, adapters and use cases together for the
// server and the CLI.
package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// Deps are the connections the services are built on.
type Deps struct {
	Config *config.Config
	Pool   *pgxpool.Pool
	Redis  *goredis.Client
	Logger zerolog.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Services holds every use case and background job.
type Services struct {
	Users         *usecase.UserUseCase
	Accounts      *usecase.AccountUseCase
	Notifications *usecase.NotificationUseCase
	Recurring     *usecase.RecurringUseCase
	Engine        *usecase.TransferEngine
	Scheduler     *usecase.RecurringScheduler
	Relay         *eventpublisher.EventPublisher

	JWT              *auth.JWTManager
	IdempotencyStore *redisRepo.IdempotencyStore
}

// NewServices builds the services from deps.
func NewServices(d Deps) *Services {
	cfg := d.Config

	txManager := postgresRepo.NewTxManager(d.Pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	accountRepo := postgresRepo.NewAccountRepository(d.Pool)
	userRepo := postgresRepo.NewUserRepository(d.Pool)
	transactionRepo := postgresRepo.NewTransactionRepository(d.Pool)
	notificationRepo := postgresRepo.NewNotificationRepository(d.Pool)
	recurringRepo := postgresRepo.NewRecurringTransferRepository(d.Pool)
	outboxRepo := postgresRepo.NewOutboxRepository(d.Pool)

	balanceCache := redisRepo.NewBalanceCache(d.Redis)

	engineCfg := usecase.TransferEngineConfig{
		TxManager:        txManager,
		AccountRepo:      accountRepo,
		UserRepo:         userRepo,
		TransactionRepo:  transactionRepo,
		NotificationRepo: notificationRepo,
		OutboxRepo:       outboxRepo,
		IDGen:            idGen,
		Retrier:          retrier,
		Cache:            balanceCache,
		CacheTTL:         cfg.BalanceCacheTTL,
	}
	schedulerCfg := usecase.RecurringSchedulerConfig{
		TxManager:     txManager,
		RecurringRepo: recurringRepo,
		Lock:          redisRepo.NewSchedulerLock(d.Redis, redisRepo.DefaultSchedulerLockKey),
		Retrier:       retrier,
		Logger:        &d.Logger,
		LockTTL:       cfg.SchedulerLockTTL,
	}
	// Left unset, the use cases fall back to no-op observers.
	if d.Metrics != nil {
		engineCfg.Observer = d.Metrics
		schedulerCfg.Observer = d.Metrics
	}

	engine := usecase.NewTransferEngine(engineCfg)
	schedulerCfg.Executor = engine

	return &Services{
		Users: usecase.NewUserUseCase(usecase.UserUseCaseConfig{
			TxManager:   txManager,
			UserRepo:    userRepo,
			AccountRepo: accountRepo,
			IDGen:       idGen,
			Hasher:      auth.NewBcryptHasher(cfg.BcryptCost),
			Limiter:     redisRepo.NewLoginLimiter(d.Redis, cfg.LoginMaxAttempts, cfg.LoginWindow),
			BonusMin:    cfg.SignupBonusMin,
			BonusMax:    cfg.SignupBonusMax,
		}),
		Accounts:      usecase.NewAccountUseCase(accountRepo, transactionRepo, balanceCache, cfg.BalanceCacheTTL),
		Notifications: usecase.NewNotificationUseCase(notificationRepo),
		Recurring:     usecase.NewRecurringUseCase(recurringRepo, userRepo, idGen),
		Engine:        engine,
		Scheduler:     usecase.NewRecurringScheduler(schedulerCfg),
		Relay: eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  newPublisher(cfg, d),
			Logger:     &d.Logger,
			BatchSize:  cfg.EventRelayBatchSize,
			Interval:   cfg.EventRelayInterval,
		}),
		JWT:              auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration),
		IdempotencyStore: redisRepo.NewIdempotencyStore(d.Redis),
	}
}

func newPublisher(cfg *config.Config, d Deps) eventpublisher.Publisher {
	if cfg.EventPublisher == "log" {
		return eventpublisher.NewLogPublisher(d.Logger)
	}
	return eventpublisher.NewRedisPublisher(d.Redis)
}
