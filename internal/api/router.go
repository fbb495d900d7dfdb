package api

import (
	"database/sql"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/api/handler"
	"github.com/gameops/account-system/internal/api/middleware"
	"github.com/gameops/account-system/internal/core/ports"
	"github.com/gameops/account-system/internal/core/service"
	"github.com/gameops/account-system/internal/infrastructure/config"
	"github.com/gameops/account-system/internal/infrastructure/db/postgres"
	redisdedup "github.com/gameops/account-system/internal/infrastructure/db/redis"
)

// Accounts at or above this level may moderate and adjust other accounts.
const gmLevel = 60

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, rdb *redis.Client, cfg *config.Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	registry := postgres.NewAccountRegistry(db, cfg.Tables)
	banRepo := postgres.NewBanRepository(db, cfg.Tables)
	creditRepo := postgres.NewCreditRepository(db, cfg.Tables)
	dedup := redisdedup.NewTransferDedup(rdb)

	policy := service.RegistrationPolicy{
		MinUsernameLength:    cfg.Register.MinUsernameLength,
		MaxUsernameLength:    cfg.Register.MaxUsernameLength,
		MinPasswordLength:    cfg.Register.MinPasswordLength,
		MaxPasswordLength:    cfg.Register.MaxPasswordLength,
		AllowDuplicateEmails: cfg.Register.AllowDuplicateEmails,
	}

	authService := service.NewAuthService(registry, policy, cfg.JWTSecret, 24*time.Hour, log)
	moderationService := service.NewModerationService(banRepo, audit, log)
	creditService := service.NewCreditService(creditRepo, log)
	transferService := service.NewTransferService(registry, creditService, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	moderationHandler := handler.NewModerationHandler(moderationService)
	creditHandler := handler.NewCreditHandler(registry, creditService, transferService, dedup, log)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	gmOnly := middleware.RequireLevel(gmLevel)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Moderation routes (GM or above) ---
	accounts := e.Group("/accounts", authMiddleware, gmOnly)
	accounts.POST("/:id/ban", moderationHandler.Ban)
	accounts.POST("/:id/tempban", moderationHandler.TempBan)
	accounts.POST("/:id/unban", moderationHandler.Unban)
	accounts.GET("/:id/bans", moderationHandler.BanStatus)

	// --- Credit ledger routes ---
	accounts.POST("/:id/credits/deposit", creditHandler.Deposit)
	accounts.GET("/:id/credits", creditHandler.Balance)
	e.POST("/credits/transfer", creditHandler.Transfer, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
