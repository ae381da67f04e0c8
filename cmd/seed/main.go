package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"financer/internal/repository"
	"financer/internal/service"
	"financer/pkg/config"
	"financer/pkg/logger"
	"financer/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the financer database",
	Long: `Seeds the default category set and imports bank statement CSV files
from disk through the same pipeline the HTTP API uses.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(importCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment is what every subcommand needs: a migrated database and
// the category service on top of it.
type environment struct {
	log        *zap.Logger
	db         *pgxpool.Pool
	categories *service.CategoryService
}

func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logger.Format = logFormat
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger := logger.Get()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	categories, err := service.NewCategoryService(repository.NewCategoryRepository(db, appLogger), cfg.Import.CategoryCacheSize, appLogger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize category service: %w", err)
	}

	return &environment{log: appLogger, db: db, categories: categories}, nil
}

func (e *environment) Close() {
	e.categories.Close()
	e.db.Close()
	logger.Sync()
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Insert the default categories into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			env, err := setup(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			seeded, err := env.categories.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			if seeded == 0 {
				env.log.Info("Categories already present, nothing to seed")
			}
			return nil
		},
	}
}
