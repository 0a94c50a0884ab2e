package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wandermate/nearby/internal/api"
	"github.com/wandermate/nearby/internal/block"
	"github.com/wandermate/nearby/internal/config"
	"github.com/wandermate/nearby/internal/location"
	"github.com/wandermate/nearby/internal/privacy"
	"github.com/wandermate/nearby/internal/profile"
	"github.com/wandermate/nearby/internal/proximity"
	"github.com/wandermate/nearby/internal/push"
	"github.com/wandermate/nearby/internal/ratelimit"
	"github.com/wandermate/nearby/internal/storage"
	"github.com/wandermate/nearby/pkg/logger"
	"github.com/wandermate/nearby/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(cfg.Server.Env)
	appLogger.Info("Starting nearby server...")

	redisClient, err := storage.NewRedisClient(cfg)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", "address", cfg.RedisAddr())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	locationStore := location.NewRedisStore(redisClient, cfg.Proximity.GeohashPrecision, cfg.Proximity.LocationTTL)
	profileStore := profile.NewRedisStore(redisClient)
	blockStore := block.NewRedisStore(redisClient)

	// Push hub delivers refreshed results to connected map clients.
	hub := push.NewHub(ctx, appLogger)
	go hub.Run()

	// One coordinator per viewer session, publishing into the hub.
	registry := proximity.NewRegistry(proximity.Deps{
		Locations:         locationStore,
		Profiles:          profileStore,
		Blocks:            blockStore,
		Jitterer:          privacy.NewJitterer(cfg.Proximity.JitterRadiusMeters),
		QueryRadiusMeters: cfg.Proximity.QueryRadiusMeters,
		FetchTimeout:      cfg.Proximity.FetchTimeout,
		Logger:            appLogger,
	}, hub.Publish)
	defer registry.StopAll()

	rateLimiter := ratelimit.NewLimiter(redisClient, cfg.RateLimit)
	rateLimitMiddleware := ratelimit.NewMiddleware(rateLimiter)

	val := validator.NewValidator()
	if err := val.ValidateRadius(cfg.Proximity.QueryRadiusMeters); err != nil {
		appLogger.Error("Invalid query radius", "error", err)
		os.Exit(1)
	}
	if err := val.ValidateRadius(cfg.Proximity.JitterRadiusMeters); err != nil {
		appLogger.Error("Invalid jitter radius", "error", err)
		os.Exit(1)
	}

	wsHandler := push.NewHandler(hub)
	apiHandler := api.NewHandler(locationStore, blockStore, registry, val)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Request logging middleware
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appLogger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	})

	api.SetupRoutes(router, apiHandler, wsHandler, rateLimitMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "address", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Cancel context to stop the hub and in-flight refreshes
	cancel()
	registry.StopAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server stopped")
}
