package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/container"
	"github.com/joshua-takyi/estate/internal/handlers"
	"github.com/joshua-takyi/estate/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(middleware.CORS(container.Config.CORSOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Recovery(container.Logger))

	secure := container.Config.IsProduction()
	requireAuth := middleware.RequireAuth(container.AuthService)
	optionalAuth := middleware.OptionalAuth(container.AuthService)

	api := r.Group("/api")
	api.GET("/health", handlers.Health(container.Repo))

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(container.AuthService))
		auth.POST("/signup", handlers.Register(container.AuthService))
		auth.POST("/login", handlers.Login(container.AuthService, secure))
		auth.POST("/signin", handlers.Login(container.AuthService, secure))
		auth.POST("/logout", handlers.Logout(secure))
		auth.GET("/logout", handlers.Logout(secure))
		auth.GET("/signout", handlers.Logout(secure))
	}

	user := api.Group("/user")
	{
		user.GET("/:id", optionalAuth, handlers.GetUser(container.UserService))
		user.GET("/listings/:id", requireAuth, handlers.GetUserListings(container.ListingService))
		user.PUT("/:id", requireAuth, handlers.UpdateUser(container.UserService))
		user.POST("/update/:id", requireAuth, handlers.UpdateUser(container.UserService))
		user.DELETE("/:id", requireAuth, handlers.DeleteUser(container.UserService, secure))
		user.DELETE("/delete/:id", requireAuth, handlers.DeleteUser(container.UserService, secure))
	}

	listing := api.Group("/listing")
	{
		listing.GET("/get", handlers.SearchListings(container.ListingService))
		listing.GET("/get/:id", handlers.GetListing(container.ListingService))
		listing.GET("/:id", handlers.GetListing(container.ListingService))
		listing.GET("/:id/contact", handlers.ContactLandlord(container.ListingService))

		listing.POST("/create", requireAuth, handlers.CreateListing(container.ListingService))
		listing.POST("/images", requireAuth, handlers.UploadImages(container.ImageService))
		listing.PUT("/:id", requireAuth, handlers.UpdateListing(container.ListingService))
		listing.POST("/update/:id", requireAuth, handlers.UpdateListing(container.ListingService))
		listing.DELETE("/:id", requireAuth, handlers.DeleteListing(container.ListingService))
		listing.DELETE("/delete/:id", requireAuth, handlers.DeleteListing(container.ListingService))
	}

	return r
}
