package container

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/estate/internal/cache"
	"github.com/joshua-takyi/estate/internal/config"
	"github.com/joshua-takyi/estate/internal/helpers"
	"github.com/joshua-takyi/estate/internal/models"
	"github.com/joshua-takyi/estate/internal/services"
)

// Repository is everything the services need from the document store.
type Repository interface {
	models.UserRepo
	models.ListingRepo
	Ping(ctx context.Context) error
}

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Repo   Repository

	AuthService    *services.AuthService
	ListingService *services.ListingService
	UserService    *services.UserService
	ImageService   *services.ImageService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	repo Repository,
	listingCache cache.ListingCache,
	imageStore helpers.ImageStore,
) *Container {
	authService := services.NewAuthService(repo, cfg.JWTSecret, cfg.SessionTTL())
	listingService := services.NewListingService(repo, repo, listingCache)
	userService := services.NewUserService(repo, listingService)
	imageService := services.NewImageService(imageStore, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Repo:           repo,
		AuthService:    authService,
		ListingService: listingService,
		UserService:    userService,
		ImageService:   imageService,
	}
}
