package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"fairhold/marketplace/internal/api/handlers"
	"fairhold/marketplace/internal/api/middleware"
	"fairhold/marketplace/internal/config"
	"fairhold/marketplace/internal/notify"
	"fairhold/marketplace/internal/services"
	"fairhold/marketplace/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient notify.IAsynqClient, notifier notify.Dispatcher) *gin.Engine {
	// Initialize services needed by API handlers
	userService := services.NewUserService(db, cfg)
	propertyService := services.NewPropertyService(db, cfg)
	conversationService := services.NewConversationService(db, cfg)
	inquiryService := services.NewInquiryService(db, cfg, propertyService, userService, conversationService, notifier)
	moderationService := services.NewModerationService(db, cfg, propertyService, userService, notifier)

	photoStorage, err := storage.NewPhotoStorage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize photo storage for API: %v", err)
	}

	r := gin.Default()

	// Initialize Middleware
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Apply global middleware first (order matters: identity before limits)
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.OptionalAuthMiddleware(cfg.JwtSecret))
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg)
	propertyHandler := handlers.NewPropertyHandler(propertyService, photoStorage, taskClient)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/properties", propertyHandler.Search)
		v1.GET("/properties/:id", propertyHandler.Get)

		// Inquiry submission relies on the optional auth already applied so
		// that anonymous callers get the service's own authentication error.
		v1.POST("/inquiries", inquiryHandler.SubmitInquiry)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/properties", propertyHandler.Create)
			authRequired.GET("/properties/mine/all", propertyHandler.Mine)
			authRequired.PATCH("/properties/:id/status", propertyHandler.SetListingStatus)
			authRequired.DELETE("/properties/:id", propertyHandler.Delete)
			authRequired.POST("/properties/:id/photos/presign", propertyHandler.PresignPhoto)
			authRequired.POST("/properties/:id/photos", propertyHandler.ProcessPhoto)

			authRequired.GET("/inquiries/mine", inquiryHandler.ListMine)
			authRequired.GET("/inquiries/received", inquiryHandler.ListReceived)
			authRequired.POST("/inquiries/:id/responded", inquiryHandler.MarkResponded)
			authRequired.POST("/inquiries/:id/proceeded", inquiryHandler.MarkProceeded)

			authRequired.GET("/conversations", conversationHandler.List)
			authRequired.GET("/conversations/:id/messages", conversationHandler.Messages)
			authRequired.POST("/conversations/:id/messages", conversationHandler.PostMessage)
			authRequired.POST("/conversations/:id/close", conversationHandler.Close)
		}

		// Moderation routes
		moderation := v1.Group("/moderation")
		moderation.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireModerator())
		{
			moderation.GET("/queue", moderationHandler.Queue)
			moderation.POST("/properties/:id/approve", moderationHandler.Approve)
			moderation.POST("/properties/:id/reject", moderationHandler.Reject)
			moderation.POST("/properties/:id/flag", moderationHandler.Flag)
			moderation.POST("/properties/:id/unflag", moderationHandler.Unflag)
			moderation.GET("/properties/:id/reviews", moderationHandler.Reviews)
		}
	}

	return r
}
