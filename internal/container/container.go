package container

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joshua-takyi/pawmates/internal/config"
	"github.com/joshua-takyi/pawmates/internal/models"
	"github.com/joshua-takyi/pawmates/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Config        *config.Config
	MongoDBClient *mongo.Client
	RedisClient   *redis.Client

	Repo *models.MongodbRepo

	UserService         *services.UserService
	PetService          *services.PetService
	BookingService      *services.BookingService
	RatingService       *services.RatingService
	ReviewService       *services.ReviewService
	FavouriteService    *services.FavouriteService
	AvailabilityService *services.AvailabilityService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoDBClient *mongo.Client,
	redisClient *redis.Client,
) *Container {
	// Initialize repositories
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	userService := services.NewUserService(repo, repo, cfg.JWTSecret)
	petService := services.NewPetService(repo)
	bookingService := services.NewBookingService(repo, repo, repo)
	ratingService := services.NewRatingService(repo)
	reviewService := services.NewReviewService(repo, repo, ratingService, logger)
	favouriteService := services.NewFavouriteService(repo, repo)
	availabilityService := services.NewAvailabilityService(repo, repo)

	return &Container{
		Logger:              logger,
		Config:              cfg,
		MongoDBClient:       mongoDBClient,
		RedisClient:         redisClient,
		Repo:                repo,
		UserService:         userService,
		PetService:          petService,
		BookingService:      bookingService,
		RatingService:       ratingService,
		ReviewService:       reviewService,
		FavouriteService:    favouriteService,
		AvailabilityService: availabilityService,
	}
}
