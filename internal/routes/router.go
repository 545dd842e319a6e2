package routes

import (
	"context"
	"net/http"

	"artmarket/internal/config"
	"artmarket/internal/delivery/http/handler"
	"artmarket/internal/infrastructure/database/postgres"
	"artmarket/internal/infrastructure/mail"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	"artmarket/internal/middleware"
	"artmarket/internal/usecase/artwork"
	"artmarket/internal/usecase/order"
	"artmarket/internal/usecase/user"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services holds the use cases shared by the router and background jobs.
type Services struct {
	Tokens   *utils.TokenIssuer
	Users    *user.Service
	Artworks *artwork.Service
	Orders   *order.Service

	userRepo *postgres.UserRepository
}

func NewServices(cfg *config.Config, db *postgres.DB, mailer mail.Sender, publisher notification.Publisher) *Services {
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry())

	userRepository := postgres.NewUserRepository(db)
	artworkRepository := postgres.NewArtworkRepository(db)
	orderRepository := postgres.NewOrderRepository(db)

	return &Services{
		Tokens:   tokens,
		Users:    user.NewService(userRepository, tokens, mailer, publisher, cfg),
		Artworks: artwork.NewService(artworkRepository, publisher),
		Orders:   order.NewService(orderRepository, artworkRepository, publisher),
		userRepo: userRepository,
	}
}

// SetupRoutes builds the engine. ctx bounds the lifetime of the rate limiters' sweepers.
func SetupRoutes(ctx context.Context, cfg *config.Config, db *postgres.DB, services *Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: recovery, request ID, logging, metrics, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RateLimitMiddleware(ctx, "general", cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handler.NewAuthHandler(services.Users)
	userHandler := handler.NewUserHandler(services.Users)
	artworkHandler := handler.NewArtworkHandler(services.Artworks)
	orderHandler := handler.NewOrderHandler(services.Orders)

	authenticate := middleware.Auth(services.Tokens, services.userRepo)

	api := router.Group("/api")
	{
		public := api.Group("")
		public.Use(middleware.RateLimitMiddleware(ctx, "auth", cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst))
		{
			authHandler.RegisterRoutes(public)
		}

		optional := api.Group("")
		optional.Use(middleware.OptionalAuth(services.Tokens, services.userRepo))
		{
			artworkHandler.RegisterRoutes(optional)
		}

		protected := api.Group("")
		protected.Use(authenticate)
		{
			authHandler.RegisterSessionRoutes(protected)
			userHandler.RegisterProfileRoutes(protected)
			artworkHandler.RegisterOwnerRoutes(protected)
			orderHandler.RegisterPartyRoutes(protected)

			// Artist routes
			artist := protected.Group("")
			artist.Use(middleware.ArtistOnly())
			{
				artworkHandler.RegisterArtistRoutes(artist)
				orderHandler.RegisterArtistRoutes(artist)
			}

			// Buyer routes
			buyer := protected.Group("")
			buyer.Use(middleware.BuyerOnly())
			{
				orderHandler.RegisterBuyerRoutes(buyer)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				artworkHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
