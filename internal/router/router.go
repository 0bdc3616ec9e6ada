package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/routinnet/routix-platform-ai/internal/handler"
	"github.com/routinnet/routix-platform-ai/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	generationHandler *handler.GenerationHandler,
	fileHandler *handler.FileHandler,
	wsHandler *handler.WSHandler,
	healthHandler *handler.HealthHandler,
	staticDir string,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Health check routes (no authentication required)
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	// Generated thumbnails and uploaded reference images. The /static
	// prefix is stripped before resolving against the storage dir, so
	// GET /static/<user>/<file> serves <staticDir>/<user>/<file>.
	h.StaticFS("/static", &app.FS{
		Root:        staticDir,
		PathRewrite: app.NewPathSlashesStripper(1),
	})

	// API v1 routes
	apiV1 := h.Group("/api/v1")
	{
		// ============ Public routes (no authentication required) ============
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/refresh", userHandler.RefreshToken)
		}

		// ============ Protected routes (JWT authentication required) ============
		authorized := apiV1.Group("")
		authorized.Use(userHandler.AuthMiddleware())
		{
			// User management
			users := authorized.Group("/users")
			{
				users.GET("/me", userHandler.GetCurrentUser)
				users.PATCH("/me", userHandler.UpdateProfile)
				users.PUT("/me/password", userHandler.ChangePassword)
				users.DELETE("/me", userHandler.DeleteAccount)
			}

			// Conversations and messages
			conversations := authorized.Group("/conversations")
			{
				conversations.POST("", chatHandler.CreateConversation)
				conversations.GET("", chatHandler.ListConversations)
				conversations.GET("/:id", chatHandler.GetConversation)
				conversations.PATCH("/:id", chatHandler.UpdateConversation)
				conversations.DELETE("/:id", chatHandler.DeleteConversation)
				conversations.GET("/:id/messages", chatHandler.ListMessages)

				// Websocket upgrade; the JWT middleware accepts the token
				// from the "token" query parameter here.
				conversations.GET("/:id/ws", wsHandler.Serve)
			}

			// Chat over plain HTTP
			authorized.POST("/chat", chatHandler.SendMessage)

			// Thumbnail generations
			generations := authorized.Group("/generations")
			{
				generations.POST("", generationHandler.Start)
				generations.GET("", generationHandler.List)
				generations.GET("/stats", generationHandler.Stats)
				generations.GET("/:id", generationHandler.Get)
				generations.POST("/:id/cancel", generationHandler.Cancel)
			}

			authorized.GET("/algorithms", generationHandler.ListAlgorithms)

			// Credits
			credits := authorized.Group("/credits")
			{
				credits.GET("/balance", generationHandler.Balance)
				credits.GET("/history", generationHandler.History)
				credits.GET("/packages", generationHandler.Packages)
				credits.POST("/purchase", generationHandler.Purchase)
			}

			// Reference image uploads
			files := authorized.Group("/files")
			{
				files.POST("", fileHandler.Upload)
				files.DELETE("/:id", fileHandler.Delete)
			}
		}
	}
}
