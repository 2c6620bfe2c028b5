package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"okazjeplus/app/echo-server/metrics"
	"okazjeplus/app/echo-server/router"
	"okazjeplus/business/interaction"
	"okazjeplus/business/segmentation"
	"okazjeplus/internal/middleware"
	psqlRepo "okazjeplus/internal/repository/postgres"
	redisRepo "okazjeplus/internal/repository/redis"
	"okazjeplus/internal/rest"
	"okazjeplus/pkg/config"
	"okazjeplus/pkg/database"
	redisClient "okazjeplus/pkg/database/redis"
	"okazjeplus/pkg/logger"
	pkgmetrics "okazjeplus/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Okazje+ personalization", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := psqlRepo.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		logger.Info("Database migrated")
	}

	// Init validate
	validate := validator.New()

	// Init repo
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	scoreRepo := psqlRepo.NewBehaviorScoreRepository(db)
	segmentStore := psqlRepo.NewUserSegmentRepository(db)

	var segmentRepo segmentation.SegmentRepository = segmentStore
	if cfg.Redis.Enabled {
		rdb, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			// the database alone is enough to serve segments
			logger.Warn("Redis unavailable, segment cache disabled", "error", err)
		} else {
			defer func() {
				if err := redisClient.CloseRedisClient(rdb); err != nil {
					logger.Error("Failed to close redis", "error", err)
				}
			}()
			segmentRepo = redisRepo.NewSegmentCache(rdb, segmentStore, cfg.Redis.SegmentCacheTTL)
			logger.Info("Segment cache enabled", "ttl", cfg.Redis.SegmentCacheTTL.String())
		}
	}

	// Init service
	segmentationService := segmentation.NewService(
		interactionRepo,
		catalogRepo,
		scoreRepo,
		segmentRepo,
		segmentation.Config{
			SegmentTTL:               cfg.Personalization.SegmentTTL,
			ScoreInteractionLimit:    cfg.Personalization.ScoreInteractionLimit,
			CategoryInteractionLimit: cfg.Personalization.CategoryInteractionLimit,
			PriceInteractionLimit:    cfg.Personalization.PriceInteractionLimit,
			LookupConcurrency:        cfg.Personalization.LookupConcurrency,
		},
	)
	interactionService := interaction.NewService(interactionRepo, validate)

	// Init handler
	interactionHandler := rest.NewInteractionHandler(interactionService)
	personalizationHandler := rest.NewPersonalizationAdminHandler(validate, segmentationService, scoreRepo, segmentStore)

	// Init metrics
	pkgmetrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware; metrics sits outside Recover so panics are counted as 5xx
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetInteractionRoutes(api, interactionHandler, authRequired)
	router.SetPersonalizationAdminRoutes(api, personalizationHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}

	logger.Info("Server stopped")
}
