package main

import (
	"context"   // Redis ping and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Shutdown trigger
	"syscall"   // Signal numbers
	"time"      // Shutdown grace

	"bookstore/internal/api"     // Custom package for API handlers
	"bookstore/internal/config"  // Custom package for configuration
	"bookstore/internal/db"      // Database connection and migration
	"bookstore/internal/service" // Business services
	"bookstore/internal/storage" // Upload storage
	"bookstore/internal/utils"   // Tokens and cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	setupLogger(cfg)

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
		if err := db.EnsureAdmin(gdb, cfg); err != nil {
			logrus.Fatalf("failed to ensure admin: %v", err)
		}
	}

	cache := setupCache(cfg)
	store, err := setupStorage(cfg)
	if err != nil {
		logrus.Fatalf("failed to set up storage: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	catalog := service.NewCatalog(gdb, cache)
	router, err := api.NewRouter(api.Deps{
		Tokens:         tokens,
		Catalog:        catalog,
		Taxonomy:       service.NewTaxonomy(gdb, catalog),
		Requests:       service.NewBookRequests(gdb, catalog),
		Carts:          service.NewCarts(gdb),
		Favorites:      service.NewFavorites(gdb),
		Users:          service.NewUsers(gdb, tokens),
		Recommender:    service.NewRecommender(cfg.RecommendationURL, cfg.RecommendationCoverURL, cfg.RecommendationLimit),
		Store:          store,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	logrus.Info("Server stopped")
}

// setupLogger applies the formatter and level
func setupLogger(cfg config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// setupCache connects to Redis; without REDIS_ADDR the catalog reads straight from the database
func setupCache(cfg config.Config) *utils.Cache {
	if cfg.RedisAddr == "" {
		logrus.Info("REDIS_ADDR not set, catalog cache disabled")
		return nil
	}
	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return utils.NewCache(redisClient, "catalog:", cfg.CacheTTL)
}

// setupStorage picks the upload backend
func setupStorage(cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == "minio" {
		store, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		logrus.WithField("bucket", cfg.MinioBucket).Info("Uploads stored in MinIO")
		return store, nil
	}
	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logrus.WithField("dir", cfg.UploadDir).Info("Uploads stored on disk")
	return store, nil
}
