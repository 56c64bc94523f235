// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adjovi/telegrid/internal/api"
	"github.com/adjovi/telegrid/internal/channel"
	"github.com/adjovi/telegrid/internal/config"
	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/guide"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/middleware"
	"github.com/adjovi/telegrid/internal/program"
	"github.com/adjovi/telegrid/internal/reminder"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	channelService  *channel.Service
	programService  *program.Service
	guideService    *guide.Service
	reminderService *reminder.Service
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	channelService := channel.NewService(repos)
	programService := program.NewService(repos)
	guideService := guide.NewService(repos, cfg.GuideLocation())
	reminderService := reminder.NewService(repos)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		channelService:  channelService,
		programService:  programService,
		guideService:    guideService,
		reminderService: reminderService,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Middleware stack
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.RequestMetrics())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	s.router.GET("/metrics", middleware.MetricsHandler())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupChannelRoutes(apiGroup, s.channelService)
	api.SetupProgramRoutes(apiGroup, s.programService)
	api.SetupGuideRoutes(apiGroup, s.guideService)
	api.SetupReminderRoutes(apiGroup, s.reminderService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
