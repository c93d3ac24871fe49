// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/auth"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/group"
	"github.com/RulerDevansh/SecretSanta/internal/jobs"
	"github.com/RulerDevansh/SecretSanta/internal/mailer"
	"github.com/RulerDevansh/SecretSanta/internal/middleware"
	"github.com/RulerDevansh/SecretSanta/internal/shared"
	"github.com/RulerDevansh/SecretSanta/internal/user"
	"github.com/RulerDevansh/SecretSanta/internal/wish"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	wishReminderJob *jobs.WishReminderJob
}

// NewServer wires the router, middleware, routes, and the database schema.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	tokenService shared.TokenService,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	groupHandler *group.Handler,
	wishHandler *wish.Handler,
	mailerHandler *mailer.Handler,
	wishReminderJob *jobs.WishReminderJob,
) (*Server, error) {
	if err := db.AutoMigrate(&user.User{}, &group.Group{}, &wish.Wish{}); err != nil {
		return nil, fmt.Errorf("auto-migrating schema: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.ClientURLs) > 0 {
		corsConfig.AllowOrigins = cfg.ClientURLs
	} else {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = len(cfg.ClientURLs) > 0
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Secret Santa API is healthy!"})
	})

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1, authMW)
	userHandler.RegisterRoutes(v1, authMW)
	groupHandler.RegisterRoutes(v1, authMW)
	wishHandler.RegisterRoutes(v1, authMW)
	mailerHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		wishReminderJob: wishReminderJob,
	}, nil
}

// Handler exposes the underlying router, mainly for tests that drive the
// API in-process via httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.wishReminderJob != nil {
		if err := s.wishReminderJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start wish reminder job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.wishReminderJob != nil {
		s.wishReminderJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
