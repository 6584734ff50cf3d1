package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sortieapp/sortie/internal/handler"
	"github.com/sortieapp/sortie/internal/storage"
	authmw "github.com/sortieapp/sortie/middleware/auth"
	"github.com/sortieapp/sortie/middleware/jwt"
)

// Handlers groups everything the router needs to wire.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Group   *handler.GroupHandler
	Event   *handler.EventHandler
	Comment *handler.CommentHandler
	Message *handler.MessageHandler
	Image   *handler.ImageHandler
}

// RegisterRoutes registers all API routes
func RegisterRoutes(
	r *gin.Engine,
	h *Handlers,
	tokenManager *jwt.TokenManager,
	tokens *storage.TokenStore,
	logger *zap.Logger,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public routes. Refresh is public because it must accept a token
	// that already expired inside the refresh window; the service
	// verifies the signature and version itself.
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(authmw.Middleware(tokenManager, tokens, logger))
	{
		protected.POST("/auth/logout", h.Auth.Logout)

		users := protected.Group("/users")
		{
			users.GET("/me", h.User.Me)
			users.GET("/me/groups", h.User.Groups)
			users.GET("/me/events", h.User.Events)
			users.GET("/me/images", h.User.Images)
			users.POST("/me/images", h.User.AddImage)
			users.PUT("/me", h.User.Update)
			users.DELETE("/me", h.User.Delete)
			users.GET("/:id", h.User.Get)
		}

		groups := protected.Group("/groups")
		{
			groups.POST("", h.Group.Create)
			groups.GET("/:id", h.Group.Get)
			groups.PUT("/:id", h.Group.Update)
			groups.DELETE("/:id", h.Group.Delete)
			groups.GET("/:id/events", h.Group.Events)
			groups.GET("/:id/images", h.Group.Images)
			groups.POST("/:id/images", h.Group.AddImage)
			groups.GET("/:id/members", h.Group.Members)
			groups.POST("/:id/join", h.Group.Join)
			groups.POST("/:id/invite", h.Group.Invite)
			groups.PATCH("/:id/membership", h.Group.UpdateMembershipStatus)
			groups.DELETE("/:id/leave", h.Group.Leave)
			groups.GET("/:id/messages", h.Message.GroupMessages)
			groups.POST("/:id/messages", h.Message.Add)
		}

		events := protected.Group("/events")
		{
			events.POST("", h.Event.Create)
			events.GET("/:id", h.Event.Get)
			events.PUT("/:id", h.Event.Update)
			events.DELETE("/:id", h.Event.Delete)
			events.GET("/:id/participants", h.Event.Participants)
			events.POST("/:id/participate", h.Event.Participate)
			events.DELETE("/:id/participate", h.Event.Leave)
			events.GET("/:id/images", h.Event.Images)
			events.POST("/:id/images", h.Event.AddImage)
			events.GET("/:id/comments", h.Comment.EventComments)
			events.POST("/:id/comments", h.Comment.AddEventComment)
		}

		comments := protected.Group("/comments")
		{
			comments.GET("/:id/replies", h.Comment.Replies)
			comments.POST("/:id/replies", h.Comment.AddReply)
			comments.POST("/:id/reactions", h.Comment.React)
			comments.DELETE("/:id/reactions", h.Comment.RemoveReaction)
			comments.PUT("/:id", h.Comment.Update)
			comments.DELETE("/:id", h.Comment.Delete)
		}

		messages := protected.Group("/messages")
		{
			messages.PUT("/:id", h.Message.Update)
			messages.DELETE("/:id", h.Message.Delete)
		}

		images := protected.Group("/images")
		{
			images.DELETE("/:id", h.Image.Delete)
		}
	}
}
