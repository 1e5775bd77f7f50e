package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/premiumgate/premiumgate/app/controllers"
	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/billing"
	"github.com/premiumgate/premiumgate/internal/pkg/cache"
	"github.com/premiumgate/premiumgate/internal/pkg/config"
	"github.com/premiumgate/premiumgate/internal/pkg/database"
	"github.com/premiumgate/premiumgate/internal/pkg/env"
	"github.com/premiumgate/premiumgate/internal/pkg/logging"
	"github.com/premiumgate/premiumgate/internal/pkg/metrics"
	"github.com/premiumgate/premiumgate/internal/pkg/router"
	"github.com/premiumgate/premiumgate/internal/pkg/session"
	"github.com/premiumgate/premiumgate/views"
)

func main() {
	env.SetupEnvFile()
	cfg := config.Load()
	l := logging.New(cfg.LogLevel, cfg.Dev)

	if err := cfg.Validate(); err != nil {
		l.Fatal("invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := NewApplication(ctx, cfg, l)
	if err != nil {
		l.Fatal("failed to start", "err", err)
	}
	defer cleanup()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			l.Error("shutdown", "err", err)
		}
	}()

	l.Info("listening", "addr", cfg.Addr(), "sandbox", cfg.Payment.Sandbox)
	if err := app.Listen(cfg.Addr()); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal("server stopped", "err", err)
	}
}

// NewApplication builds every dependency once and wires them into the fiber
// app. The returned func releases the database and cache connections.
func NewApplication(ctx context.Context, cfg config.Config, l *log.Logger) (*fiber.App, func(), error) {
	db, err := database.Open(cfg.Database, l)
	if err != nil {
		return nil, nil, err
	}
	cacheClient := cache.NewClient(ctx, cfg.Cache, l)

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if cacheClient != nil {
			_ = cacheClient.Close()
		}
	}

	m := metrics.New()
	repos := repository.NewFactory(db).GetRepositories()
	provider := billing.NewMercadoPagoClient(cfg.Payment, m)
	svc := billing.NewService(provider, repos, billing.ServiceOptions{
		Offer:   cfg.Offer,
		Sandbox: cfg.Payment.Sandbox,
		Metrics: m,
		Logger:  l,
	})

	basePath := findBasePath()

	app := fiber.New(fiber.Config{
		AppName:      "premiumgate",
		Views:        views.NewEngine(),
		ErrorHandler: controllers.HandleError,
	})

	// ignore favicon requests
	app.Use(favicon.New())

	// recovery and logging
	app.Use(recover.New(), logger.New())

	if basePath != "" {
		app.Static("/", basePath+"public/assets", fiber.Static{
			CacheDuration: 15 * time.Second,
			Compress:      true,
		})

		// SWAGGER / OPENAPI
		openAPIFile := basePath + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(openAPIFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/docs/api/",
				FilePath: openAPIFile,
				Path:     "v1",
			}))
		}
	} else {
		l.Warn("public directory not found, static files and API docs disabled")
	}

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Config:   cfg,
		DB:       db,
		Cache:    cacheClient,
		Repos:    repos,
		Sessions: session.NewStore(cfg, cacheClient, l),
		Billing:  svc,
		Metrics:  m,
		Logger:   l,
	})

	return app, cleanup, nil
}

func findBasePath() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/premiumgate to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); err == nil {
			return path
		}
	}
	return ""
}
