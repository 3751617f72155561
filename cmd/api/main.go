package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/estate/internal/cache"
	"github.com/joshua-takyi/estate/internal/config"
	"github.com/joshua-takyi/estate/internal/connect"
	"github.com/joshua-takyi/estate/internal/container"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/logger"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/routes"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, logFile := logger.New(cfg, os.Stdout)
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(log)
	log.Info("Starting estate API server", "environment", cfg.Environment)

	ctx := context.Background()

	mongoClient, err := connect.MongoDBConnect(ctx, cfg)
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	repo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		log.Error("Failed to initialize image store", "store", cfg.ImageStore, "error", err)
		os.Exit(1)
	}
	log.Info("Image store ready", "store", cfg.ImageStore)

	redisClient, listingCache := newListingCache(ctx, cfg, log)

	appContainer := container.NewContainer(cfg, log, repo, listingCache, imageStore)
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
		}
	}
	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		log.Error("Error disconnecting from MongoDB", "error", err)
	}

	log.Info("Server exited")
}

func newImageStore(cfg *config.Config) (helpers.ImageStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreCloudinary:
		cld, err := connect.CloudinaryCredentials(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}
		return helpers.NewCloudinaryStore(cld, cfg.Cloudinary.Folder), nil
	case config.ImageStoreSupabase:
		client, err := connect.InitSupabase(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return helpers.NewSupabaseStore(client, cfg.Supabase.Bucket, helpers.ListingFolder), nil
	}
	return helpers.DisabledImageStore{}, nil
}

// newListingCache falls back to no caching when Redis is not configured or
// not reachable.
func newListingCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*redis.Client, cache.ListingCache) {
	client, err := connect.RedisConnect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, listing cache disabled", "error", err)
		return nil, cache.Noop{}
	}
	if client == nil {
		return nil, cache.Noop{}
	}
	log.Info("Connected to Redis successfully", "addr", cfg.Redis.Addr, "ttl", cfg.CacheTTL())
	return client, cache.NewRedisListingCache(client, cfg.CacheTTL(), log)
}
