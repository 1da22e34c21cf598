package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sola-scriptura-reader-api/internal/config"
	"github.com/sola-scriptura-reader-api/internal/handlers"
	applog "github.com/sola-scriptura-reader-api/internal/log"
	"github.com/sola-scriptura-reader-api/internal/middleware"
	"github.com/sola-scriptura-reader-api/internal/repository"
	"github.com/sola-scriptura-reader-api/internal/repository/postgres"
	"github.com/sola-scriptura-reader-api/internal/repository/sqlite"
	"github.com/sola-scriptura-reader-api/internal/services"
	schemaconfig "github.com/sola-scriptura-reader-api/pkg/schema/config"
	"github.com/sola-scriptura-reader-api/pkg/schema/db"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	cfg := config.GetConfig()
	storeCfg := schemaconfig.GetConfig()

	applog.Init(applog.Options{Level: storeCfg.LogLevel, Format: storeCfg.LogFormat, File: storeCfg.LogFile})
	logger := applog.L()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware())

	// Initialize storage
	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		logger.Error("failed to initialize storage", slog.String("backend", storeCfg.StoreBackend), slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("storage initialization complete",
		slog.String("backend", db.Backend()), slog.String("sqlite_driver", db.SQLiteDriverPackage()))

	// Create repository for the configured backend
	var scriptureRepo repository.ScriptureRepository
	switch db.Backend() {
	case db.BackendPostgres:
		scriptureRepo = postgres.NewScriptureRepository(db.Get())
	default:
		scriptureRepo = sqlite.NewScriptureRepository(db.Get())
	}

	// Create services
	scriptureSvc := services.NewScriptureService(scriptureRepo, logger)

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(scriptureSvc, db.Backend())
	healthHandler.RegisterRoutes(api)

	scriptureHandler := handlers.NewScriptureHandler(scriptureSvc, logger)
	scriptureHandler.RegisterRoutes(api)

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("starting server", slog.String("title", cfg.APITitle), slog.String("version", cfg.APIVersion), slog.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.Any("err", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", slog.Any("err", err))
	}

	if err := db.Close(); err != nil {
		logger.Error("error closing storage", slog.Any("err", err))
	}

	logger.Info("server stopped")
}
