package api

import (
	"fmt"
	"log/slog"

	"bilet/internal/cache"
	"bilet/internal/config"
	"bilet/internal/database"
	"bilet/internal/handlers"
	"bilet/internal/logger"
	"bilet/internal/messaging"
	"bilet/internal/metrics"
	"bilet/internal/middleware"
	"bilet/internal/repository"
	"bilet/internal/search"
	"bilet/internal/service"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP API server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) *Server {
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	gin.SetMode(cfg.GinMode)

	// Connect to the database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// Valkey and Elasticsearch are optional: the API serves every endpoint
	// without them, just slower and without full-text search.
	var valkeyClient *cache.ValkeyClient
	if cfg.Valkey.Enabled {
		valkeyClient, err = cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Error("Failed to connect to Valkey, running without cache", "error", err)
			valkeyClient = nil
		}
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.Enabled {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			slog.Error("Failed to connect to Elasticsearch, running without search", "error", err)
			esClient = nil
		}
	}

	// Create repositories
	repos := repository.NewRepositories(db)

	// Create services
	services := service.NewServices(cfg, repos, natsClient, valkeyClient, esClient)

	// Create router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey, s.config.UpcomingTTL)

	api := s.router.Group("/api")
	// Resolve the session cookie on every request; handlers that tolerate
	// anonymous callers read a nil user.
	api.Use(middleware.SessionAuth(s.services.Users))
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/password-reset", h.RequestPasswordReset)
		api.POST("/password-reset/confirm", h.ConfirmPasswordReset)

		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/upcoming", h.UpcomingEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/comments", h.ListComments)
		}

		api.GET("/categories", h.ListCategories)

		// Everything below requires a valid session
		auth := api.Group("")
		auth.Use(middleware.RequireAuth())
		{
			auth.POST("/logout", h.Logout)
			auth.GET("/profile", h.GetProfile)
			auth.PUT("/profile", h.UpdateProfile)

			auth.POST("/events", h.CreateEvent)
			auth.GET("/events/mine", h.MyEvents)
			auth.PUT("/events/:id", h.UpdateEvent)
			auth.DELETE("/events/:id", h.CancelEvent)
			auth.POST("/events/:id/purchase", h.PurchaseTickets)
			auth.POST("/events/:id/comments", h.CreateComment)

			auth.GET("/tickets", h.MyTickets)
			auth.POST("/tickets/:id/cancel", h.CancelTicket)

			auth.PUT("/comments/:id", h.UpdateComment)
			auth.DELETE("/comments/:id", h.DeleteComment)

			auth.GET("/notifications", h.ListNotifications)
			auth.POST("/notifications/:id/mark-read", h.MarkNotificationRead)
			auth.POST("/notifications/mark-all-read", h.MarkAllNotificationsRead)

			auth.GET("/dashboard", h.Dashboard)
			auth.GET("/admin/stats", h.AdminStats)

			auth.POST("/categories", h.CreateCategory)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "bilet-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
