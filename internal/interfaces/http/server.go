// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadMB    int64
	AllowedOrigins []string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxUploadMB:    20,
		AllowedOrigins: []string{"*"},
	}
}

// Services are the application use cases exposed over HTTP
type Services struct {
	Cases          service.CaseRecordService
	Reconciliation service.ReconciliationService
	Dependencies   service.DependencyService
	Templates      service.TemplateService
	Auth           service.AuthService
	Analytics      service.AnalyticsService
	Import         service.ImportService

	// Health reports per-component errors; nil means healthy
	Health func(ctx context.Context) map[string]error
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware(s.config.AllowedOrigins))
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config.MaxUploadMB<<20, s.logger)

	s.router.GET("/health", h.HealthCheck)
	s.router.POST("/auth/login", h.Login)

	api := s.router.Group("/", authMiddleware(s.services.Auth))
	{
		api.GET("/auth/me", h.Me)
		api.PUT("/auth/update-email", h.UpdateEmail)
		api.PUT("/auth/update-notifications", h.UpdateNotifications)

		api.GET("/dependencies", h.ListDependencies)
		api.POST("/dependencies", h.CreateDependency)
		api.GET("/dependencies/:id", h.GetDependency)
		api.PUT("/dependencies/:id", h.UpdateDependency)
		api.DELETE("/dependencies/:id", h.DeleteDependency)

		api.GET("/templates", h.ListTemplates)
		api.POST("/templates", h.CreateTemplate)
		api.POST("/templates/validate", h.ValidateTemplate)
		api.GET("/templates/:id", h.GetTemplate)
		api.PUT("/templates/:id", h.UpdateTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)

		api.GET("/expedientes", h.ListCases)
		api.POST("/expedientes", h.CreateCase)
		api.PUT("/expedientes", h.ReplaceCases)
		api.GET("/expedientes/export", h.ExportCases)
		api.POST("/expedientes/procesar", h.ProcessCases)
		api.GET("/expedientes/resultado", h.LatestResult)
		api.GET("/expedientes/resultado/export/:bucket", h.ExportBucket)
		api.GET("/expedientes/:id", h.GetCase)
		api.PUT("/expedientes/:id", h.UpdateCase)
		api.DELETE("/expedientes/:id", h.DeleteCase)

		api.GET("/analytics/agentes/:serie", h.AgentSeries)
		api.GET("/analytics/expedientes/:serie", h.CaseSeries)

		api.POST("/tools/agrupamiento-niveles/upload", h.UploadAgents)
		api.POST("/admin/limpiar-dashboard", requireRole(entity.RoleAdmin), h.ClearDashboard)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
