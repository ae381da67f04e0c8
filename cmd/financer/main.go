package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"financer/internal/api"
	"financer/internal/api/handlers"
	"financer/internal/bankparser"
	"financer/internal/repository"
	"financer/internal/service"
	"financer/pkg/auth"
	"financer/pkg/config"
	"financer/pkg/logger"
	"financer/pkg/postgres"

	"go.uber.org/zap"
)

// @title Financer API
// @version 1.0
// @description Bank statement import, transaction bookkeeping and spending analysis
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@financer.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting financer service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	categoryService, err := service.NewCategoryService(categoryRepo, cfg.Import.CategoryCacheSize, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize category service", zap.Error(err))
	}
	defer categoryService.Close()

	if _, err := categoryService.SeedDefaults(ctx); err != nil {
		appLogger.Error("Failed to seed default categories", zap.Error(err))
	}

	importService := service.NewImportService(bankparser.NewRegistry(), txRepo, categoryService, appLogger)
	transactionService := service.NewTransactionService(txRepo, appLogger)

	completer, err := service.NewCompleter(ctx, &cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM completer", zap.Error(err))
	}
	if closer, ok := completer.(io.Closer); ok {
		defer closer.Close()
	}
	suggestionService := service.NewSuggestionService(transactionService, completer, appLogger)

	app := api.SetupRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, appLogger),
		Transaction: handlers.NewTransactionHandler(transactionService, appLogger),
		Import:      handlers.NewImportHandler(importService, cfg.Import.MaxUploadBytes, appLogger),
		Category:    handlers.NewCategoryHandler(categoryService, appLogger),
		Suggestion:  handlers.NewSuggestionHandler(suggestionService, appLogger),
	}, jwtManager, api.Options{
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		HealthCheck: func(ctx context.Context) error {
			return postgres.Ping(ctx, db)
		},
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
