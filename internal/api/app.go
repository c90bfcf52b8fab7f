package api

import (
	"time"

	"churchdirectory/internal/cache"
	"churchdirectory/internal/config"
	"churchdirectory/internal/middleware"
	"churchdirectory/internal/service"
	"churchdirectory/internal/store"
	vdr "churchdirectory/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp assembles the Fiber application: session-gated JSON API over the
// optimistic cache, login rate limiting, request logging and metrics.
func NewApp(cfg *config.Config, directory *cache.Directory, st store.Store, sessions *session.Store, limits *service.RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	handler := NewHandler(cfg, directory, sessions, limits)
	health := NewHealthHandler(st)

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.Logger())

	// Rate limiting for the login endpoint
	loginLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts. Please try again later.",
			})
		},
	})

	app.Post("/login", loginLimiter, handler.Login)
	app.Post("/logout", handler.Logout)
	app.Get("/health", health.Healthy)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authed := app.Group("/api", middleware.AuthenticatedSession(sessions))
	authed.Get("/members", handler.ListMembers)
	authed.Get("/members/export", handler.ExportMembers)
	authed.Get("/members/:id", handler.GetMember)
	authed.Post("/members", handler.CreateMember)
	authed.Put("/members/:id", handler.UpdateMember)
	authed.Delete("/members/:id", handler.DeleteMember)

	authed.Get("/departments", handler.ListDepartments)
	authed.Post("/departments", handler.CreateDepartment)
	authed.Put("/departments/:id", handler.UpdateDepartment)
	authed.Delete("/departments/:id", handler.DeleteDepartment)

	return app
}

// Handler serves the directory API. All reads and writes go through the
// optimistic cache; only health checks touch the store directly.
type Handler struct {
	cfg      *config.Config
	cache    *cache.Directory
	sessions *session.Store
	limits   *service.RateLimiter
	validate *vdr.Validator
}

func NewHandler(cfg *config.Config, directory *cache.Directory, sessions *session.Store, limits *service.RateLimiter) *Handler {
	return &Handler{
		cfg:      cfg,
		cache:    directory,
		sessions: sessions,
		limits:   limits,
		validate: vdr.New(),
	}
}
