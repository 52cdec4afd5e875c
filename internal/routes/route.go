package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/container"
	"github.com/joshua-takyi/pawmates/internal/handlers"
	"github.com/joshua-takyi/pawmates/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	// Set Gin mode for production
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.RateLimit(container.RedisClient))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "pawmates-api",
			})
		})

		// public routes
		v1.POST("/auth/register", handlers.Register(container.UserService))
		v1.POST("/auth/login", handlers.Login(container.UserService))
		v1.POST("/auth/logout", handlers.Logout())
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Config.JWTSecret, container.Logger))

	protected.GET("/profile", handlers.GetMyProfile(container.UserService))
	protected.PATCH("/profile", handlers.UpdateMyProfile(container.UserService))

	sitterRoutes := protected.Group("/sitters")
	{
		sitterRoutes.GET("/", handlers.ListSitters(container.UserService))
		sitterRoutes.GET("/:id", handlers.GetSitter(container.UserService))
	}

	petRoutes := protected.Group("/pets")
	{
		petRoutes.POST("/", handlers.CreatePet(container.PetService))
		petRoutes.GET("/", handlers.ListMyPets(container.PetService))
		petRoutes.GET("/:id", handlers.GetPet(container.PetService))
		petRoutes.PATCH("/:id", handlers.UpdatePet(container.PetService))
		petRoutes.DELETE("/:id", handlers.DeletePet(container.PetService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("/", handlers.ListBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.PATCH("/:id/status", handlers.ChangeBookingStatus(container.BookingService))
		bookingRoutes.PATCH("/:id", handlers.UpdateBookingDetails(container.BookingService))
		bookingRoutes.DELETE("/:id", handlers.DeleteBooking(container.BookingService))
	}

	reviewRoutes := protected.Group("/reviews")
	{
		reviewRoutes.POST("/", handlers.CreateReview(container.ReviewService))
		reviewRoutes.GET("/", handlers.ListReviews(container.ReviewService))
		reviewRoutes.GET("/:id", handlers.GetReview(container.ReviewService))
		reviewRoutes.PATCH("/:id", handlers.UpdateReview(container.ReviewService))
		reviewRoutes.DELETE("/:id", handlers.DeleteReview(container.ReviewService))
	}

	availabilityRoutes := protected.Group("/availability")
	{
		availabilityRoutes.POST("/recurring", handlers.CreateRecurringAvailability(container.AvailabilityService))
		availabilityRoutes.GET("/recurring", handlers.ListRecurringAvailability(container.AvailabilityService))
		availabilityRoutes.PATCH("/recurring/:id", handlers.UpdateRecurringAvailability(container.AvailabilityService))
		availabilityRoutes.DELETE("/recurring/:id", handlers.DeleteRecurringAvailability(container.AvailabilityService))
		availabilityRoutes.POST("/specific", handlers.CreateSpecificAvailability(container.AvailabilityService))
		availabilityRoutes.GET("/specific", handlers.ListSpecificAvailability(container.AvailabilityService))
		availabilityRoutes.PATCH("/specific/:id", handlers.UpdateSpecificAvailability(container.AvailabilityService))
		availabilityRoutes.DELETE("/specific/:id", handlers.DeleteSpecificAvailability(container.AvailabilityService))
		availabilityRoutes.GET("/sitter/:id", handlers.GetSitterAvailability(container.AvailabilityService))
	}

	favouriteRoutes := protected.Group("/favourites")
	{
		favouriteRoutes.POST("/:id", handlers.AddToFavourites(container.FavouriteService))
		favouriteRoutes.DELETE("/:id", handlers.RemoveFromFavourites(container.FavouriteService))
		favouriteRoutes.GET("/", handlers.GetUserFavourites(container.FavouriteService))
	}

	return r
}
