package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whitebeat/config"
	"whitebeat/internal/handler"
	"whitebeat/internal/middleware"
	"whitebeat/internal/redis"
	"whitebeat/internal/services"
	"whitebeat/internal/transport/httpdto"
	"whitebeat/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "production"
	TestMode    = "test"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Group        *handler.GroupHandler
	Message      *handler.MessageHandler
	Status       *handler.StatusHandler
	Call         *handler.CallHandler
	Upload       *handler.UploadHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.Server.Environment == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Environment == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter, db *gorm.DB) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := middleware.AuthMiddleware(authService)

	users := s.engine.Group("/v1/users")
	{
		users.POST("/register", handlers.User.Register)
		users.GET("/me", auth, handlers.User.Me)
		users.PATCH("/me", auth, handlers.User.UpdateProfile)
		users.POST("/login", auth, handlers.User.Login)
		users.POST("/logout", auth, handlers.User.Logout)
		users.POST("/heartbeat", auth, handlers.User.Heartbeat)
		users.GET("/:id", auth, handlers.User.Get)
		users.GET("/:id/presence", auth, handlers.User.Presence)
	}

	contacts := s.engine.Group("/v1/contacts", auth)
	{
		contacts.GET("", handlers.User.ListContacts)
		contacts.POST("", handlers.User.AddContact)
		contacts.DELETE("/:id", handlers.User.RemoveContact)
		contacts.PATCH("/:id/block", handlers.User.SetBlocked)
	}

	conversations := s.engine.Group("/v1/conversations", auth)
	{
		conversations.POST("/open", handlers.Conversation.Open)
		conversations.GET("", handlers.Conversation.List)
		conversations.PATCH("/:id/archive", handlers.Conversation.SetArchived)
		conversations.PATCH("/:id/mute", handlers.Conversation.SetMuted)
		conversations.GET("/:id/messages", handlers.Message.ListConversation)
	}

	groups := s.engine.Group("/v1/groups", auth)
	{
		groups.POST("", handlers.Group.Create)
		groups.GET("", handlers.Group.List)
		groups.GET("/:id", handlers.Group.Get)
		groups.PATCH("/:id", handlers.Group.UpdateInfo)
		groups.POST("/:id/members", handlers.Group.AddMember)
		groups.DELETE("/:id/members/:userId", handlers.Group.RemoveMember)
		groups.PATCH("/:id/admins", handlers.Group.SetAdmin)
		groups.POST("/:id/leave", handlers.Group.Leave)
		groups.GET("/:id/messages", handlers.Message.ListGroup)
	}

	messages := s.engine.Group("/v1/messages", auth)
	{
		if limiter != nil {
			messages.POST("", middleware.MessageRateLimitMiddleware(limiter), handlers.Message.Send)
		} else {
			messages.POST("", handlers.Message.Send)
		}
		messages.PATCH("/:id", handlers.Message.Edit)
		messages.DELETE("/:id", handlers.Message.Delete)
		messages.PUT("/:id/reaction", handlers.Message.React)
		messages.POST("/:id/forward", handlers.Message.Forward)
		messages.POST("/:id/delivered", handlers.Message.MarkDelivered)
		messages.POST("/read", handlers.Message.MarkRead)
	}

	statuses := s.engine.Group("/v1/statuses", auth)
	{
		statuses.POST("", handlers.Status.Create)
		statuses.GET("/feed", handlers.Status.Feed)
		statuses.GET("/mine", handlers.Status.Mine)
		statuses.POST("/:id/view", handlers.Status.View)
	}

	calls := s.engine.Group("/v1/calls", auth)
	{
		if limiter != nil {
			calls.POST("", middleware.CallRateLimitMiddleware(limiter), handlers.Call.Initiate)
		} else {
			calls.POST("", handlers.Call.Initiate)
		}
		calls.PATCH("/:id/status", handlers.Call.Transition)
		calls.GET("/history", handlers.Call.History)
	}

	uploads := s.engine.Group("/v1/uploads", auth)
	{
		uploads.POST("/presign", handlers.Upload.Presign)
		uploads.GET("/download", handlers.Upload.Download)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.Server.Port)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
