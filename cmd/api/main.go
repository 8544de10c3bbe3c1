package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/config"
	"github.com/JusticeIsreal/url-shortener/internal/handler"
	"github.com/JusticeIsreal/url-shortener/internal/logger"
	"github.com/JusticeIsreal/url-shortener/internal/middleware"
	"github.com/JusticeIsreal/url-shortener/internal/repository/postgres"
	redisrepo "github.com/JusticeIsreal/url-shortener/internal/repository/redis"
	"github.com/JusticeIsreal/url-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.Get()
	log.Info("Starting URL shortener service",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"log_level", cfg.Log.Level,
	)

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		log.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := setupRedis(cfg)
	if err != nil {
		log.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	linkRepo := postgres.NewLinkRepository(dbPool)
	clickRepo := postgres.NewClickRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	linkCache := redisrepo.NewLinkCache(redisClient)

	linkService := service.NewLinkService(linkRepo, linkCache, clickRepo)
	archiveService := service.NewArchiveService(linkRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	linkHandler := handler.NewLinkHandler(linkService, cfg.Server.BaseURL)
	archiveHandler := handler.NewArchiveHandler(archiveService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient)

	router := setupRouter(cfg, linkHandler, archiveHandler, userHandler, healthHandler)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	go archiveService.Run(sweeperCtx, cfg.Archive.SweepInterval)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg.Server.ShutdownTimeout, stopSweeper, dbPool, redisClient, log)
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redisClient, nil
}

func setupRouter(
	cfg *config.Config,
	linkHandler *handler.LinkHandler,
	archiveHandler *handler.ArchiveHandler,
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)

	api := router.Group("/api")
	{
		api.POST("/shorten", linkHandler.Shorten)
		api.GET("/details/:slug", linkHandler.Details)
		api.GET("/analytics/:slug", linkHandler.Analytics)
		api.GET("/links", linkHandler.ListActive)
		api.PUT("/links/:slug", linkHandler.Update)
		api.DELETE("/links/:slug", linkHandler.Delete)

		auth := api.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)

			authed := auth.Group("", middleware.RequireAuth(cfg.Auth.JWTSecret))
			authed.POST("/register", userHandler.Register)
			authed.DELETE("/users/:email", userHandler.Delete)
		}

		admin := api.Group("/admin", middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			admin.POST("/purge-expired", archiveHandler.Purge)
			admin.GET("/archived", archiveHandler.ListArchived)
		}
	}

	router.GET("/:slug", linkHandler.Redirect)

	return router
}

func gracefulShutdown(
	srv *http.Server,
	timeout time.Duration,
	stopSweeper context.CancelFunc,
	dbPool *pgxpool.Pool,
	redisClient *redis.Client,
	log *slog.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	dbPool.Close()
	log.Info("Database connection closed")

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis", "error", err)
	}

	log.Info("Graceful shutdown completed")
}
