package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	"github.com/iho/gowallet/internal/app"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
)

// Overridden in tests.
var (
	bcryptGenerate = bcrypt.GenerateFromPassword
	loadConfig     = config.Load
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet operations tool",
		Long:          `Maintenance commands for GoWallet: schema migrations, manual scheduler ticks and account inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = logger.New(logger.Config{
				Level:   os.Getenv("LOG_LEVEL"),
				Format:  "console",
				Service: "gowallet-cli",
				Output:  os.Stderr,
			})
		},
	}

	rootCmd.AddCommand(migrateCmd(), schedulerCmd(), hashPasswordCmd(), balanceCmd())
	return rootCmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(cfg.DatabaseURL)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(cfg.DatabaseURL)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"version": version, "dirty": dirty})
			},
		},
	)

	return cmd
}

func schedulerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Recurring transfer scheduler",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "tick",
		Short: "Run one scheduler tick now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
			if err != nil {
				return err
			}
			defer redisClient.Close()

			services := app.NewServices(app.Deps{
				Config: cfg,
				Pool:   pool,
				Redis:  redisClient,
				Logger: log.Logger,
			})

			summary, err := services.Scheduler.RunOnce(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	})

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcryptGenerate([]byte(args[0]), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hashed))
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <user-id>",
		Short: "Print a user's balance straight from the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			account, err := postgresRepo.NewAccountRepository(pool).GetByUserID(ctx, args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]string{
				"userId":  account.UserID,
				"balance": account.Balance.StringFixed(2),
			})
		},
	}
}

func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       2,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
