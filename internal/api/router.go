package api

import (
	"context"
	"errors"
	"time"

	"financer/docs"
	"financer/internal/api/handlers"
	"financer/pkg/auth"
	"financer/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Transaction *handlers.TransactionHandler
	Import      *handlers.ImportHandler
	Category    *handlers.CategoryHandler
	Suggestion  *handlers.SuggestionHandler
}

type Options struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// HealthCheck, when set, is reported as the database status of /health.
	HealthCheck func(ctx context.Context) error
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, opts Options, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    opts.BodyLimit,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			} else {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		if opts.HealthCheck == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		if err := opts.HealthCheck(c.Context()); err != nil {
			appLogger.Warn("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": "down",
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	})

	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	authMiddleware := middleware.AuthMiddleware(jwtManager, appLogger)

	profile := app.Group("/user/profile", authMiddleware)
	profile.Get("", h.Auth.GetProfile)
	profile.Patch("", h.Auth.UpdateProfile)

	protected := app.Group("/api/v1", authMiddleware)

	// static segments are registered before /:id
	transactions := protected.Group("/transactions")
	transactions.Post("/import/csv", h.Import.ImportCSV)
	transactions.Post("/import/csv/:bankCode", h.Import.ImportBankCSV)
	transactions.Get("/banks/supported", h.Import.SupportedBanks)
	transactions.Get("/stats", h.Transaction.GetStats)
	transactions.Post("", h.Transaction.CreateTransaction)
	transactions.Get("", h.Transaction.ListTransactions)
	transactions.Get("/:id", h.Transaction.GetTransaction)
	transactions.Patch("/:id", h.Transaction.UpdateTransaction)
	transactions.Delete("/:id", h.Transaction.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.Post("", h.Category.CreateCategory)
	categories.Get("", h.Category.ListCategories)
	categories.Get("/:id", h.Category.GetCategory)
	categories.Patch("/:id", h.Category.UpdateCategory)
	categories.Delete("/:id", h.Category.DeleteCategory)

	protected.Get("/suggestions", h.Suggestion.GetSuggestions)

	return app
}
