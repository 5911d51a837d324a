package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/greenpula/greenpula/internal/auth"
	"github.com/greenpula/greenpula/internal/config"
	"github.com/greenpula/greenpula/internal/insights"
	"github.com/greenpula/greenpula/internal/leaderboard"
	"github.com/greenpula/greenpula/internal/ledger"
	"github.com/greenpula/greenpula/internal/middleware"
	"github.com/greenpula/greenpula/internal/notification"
	"github.com/greenpula/greenpula/internal/pricefeed"
	"github.com/greenpula/greenpula/internal/registry"
	"github.com/greenpula/greenpula/internal/seed"
	"github.com/greenpula/greenpula/internal/settings"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Price    *pricefeed.Poller
	Insights *insights.Service
}

// Setup configures middlewares and all application routes. This is the
// lifecycle controller's surface: every registry/ledger mutation enters
// through a handler wired here.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	if d.Insights == nil {
		d.Insights = insights.NewService(nil)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories: Postgres when available, in-memory (seeded) otherwise.
	var userRepo registry.Repository
	var settingsRepo settings.Repository
	if d.DB != nil {
		userRepo = registry.NewPostgresRepository(d.DB)
		settingsRepo = settings.NewPostgresRepository(d.DB)
	} else {
		userRepo = registry.NewMemoryRepository()
		settingsRepo = settings.NewMemoryRepository()
		if d.Cfg.SeedDemoData {
			if err := seed.Load(context.Background(), userRepo, time.Now().UnixNano()); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
		}
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	settingsSvc := settings.NewService(settingsRepo)
	registrySvc := registry.NewService(userRepo, notifier)
	ledgerSvc := ledger.NewService(userRepo, settingsSvc, notifier)
	leaderboardSvc := leaderboard.NewService(userRepo, settingsSvc)
	authSvc := auth.NewService(d.Cfg, registrySvc, userRepo)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterRegistrationRoutes(api, registrySvc, authSvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authSvc, rateLimiter)
	RegisterLeaderboardRoutes(api, leaderboardSvc, registrySvc)
	RegisterPriceRoutes(api, d.Price, settingsSvc)
	RegisterSettingsReadRoute(api, settingsSvc)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, userRepo)
	protected := api.Group("", jwtmw)
	RegisterProfileRoutes(protected, registrySvc, settingsSvc)
	RegisterLogoutRoute(protected, authSvc)
	RegisterInsightRoutes(protected, d.Insights, registrySvc)

	// Admin routes: server-enforced role boundary.
	admin := protected.Group("/admin", middleware.RequireAdmin(userRepo))
	if d.Cache != nil {
		admin.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterAdminRoutes(admin, registrySvc, ledgerSvc, settingsSvc, d.Logger)

	return nil
}

// statusForErr maps domain sentinel errors onto HTTP statuses.
func statusForErr(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDuplicateIdentifier),
		errors.Is(err, registry.ErrInvalidTransition),
		errors.Is(err, ledger.ErrNotApproved):
		return http.StatusConflict
	case errors.Is(err, registry.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, settings.ErrInvalidSettings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func domainError(err error) *fiber.Error {
	return fiber.NewError(statusForErr(err), err.Error())
}
