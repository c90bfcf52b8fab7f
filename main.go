package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"churchdirectory/internal/api"
	"churchdirectory/internal/cache"
	"churchdirectory/internal/config"
	"churchdirectory/internal/logger"
	"churchdirectory/internal/service"
	"churchdirectory/internal/store"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.NewConfig()
	logger.New(cfg)

	ctx := context.Background()

	// Connect the directory store (runs migrations for the postgres backend)
	st, err := store.NewStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open directory store: %v", err)
	}
	defer st.Close()

	// Initial load: rendering is gated on this read completing
	directory := cache.New(st)
	if err := directory.Load(ctx); err != nil {
		log.Fatalf("Failed to load directory: %v", err)
	}

	// Initialize session store; sessions live next to the directory data
	// when postgres backs it, in process memory otherwise
	sessionConfig := session.Config{
		KeyLookup:      "cookie:session_id",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     cfg.Auth.SessionExpiration,
	}
	if cfg.Store.Backend == "postgres" {
		sessionConfig.Storage = postgres.New(postgres.Config{
			Host:     cfg.Store.Postgres.Host,
			Port:     cfg.Store.Postgres.Port,
			Database: cfg.Store.Postgres.Name,
			Username: cfg.Store.Postgres.User,
			Password: cfg.Store.Postgres.Password,
			Table:    "sessions",
			Reset:    false,
		})
	}
	sessions := session.New(sessionConfig)

	// Optional redis-backed login attempt limiter
	var limits *service.RateLimiter
	if cfg.Redis.Addr != "" {
		limits = service.NewRateLimiter(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	app := api.NewApp(cfg, directory, st, sessions, limits)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		// Stop accepting requests first so no new writes get dispatched
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := app.Listen(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}

	// Listener is down and handlers have returned; drain the background
	// writes before the deferred store close
	directory.Flush()
}
