package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/logging"
	"github.com/dementia-probability-mcp/internal/middleware"
	"github.com/dementia-probability-mcp/internal/service"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	calculator    *service.CalculatorService
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
}

// CalculateResponse is the body returned by the calculate endpoints.
type CalculateResponse struct {
	Selection domain.Selection `json:"selection"`
	domain.DementiaStats
	Formatted service.FormattedStats `json:"formatted"`
	Report    string                 `json:"report"`
}

// NewServer creates a new HTTP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewClientRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, cfg.Server.RateLimitIdle)

	router := gin.New()
	router.Use(gin.CustomRecoveryWithWriter(nil, recoverPanic(logger)))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.RateLimit(limiter))

	server := &Server{
		configManager: configManager,
		calculator:    service.NewCalculatorService(logger),
		logger:        logger,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and shuts it down when ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/reference", s.handleReference)
		v1.GET("/calculate", s.handleCalculateQuery)
		v1.POST("/calculate", s.handleCalculate)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// handleReference returns the constant tables
func (s *Server) handleReference(c *gin.Context) {
	c.JSON(http.StatusOK, service.GetReferenceTables())
}

// handleCalculate handles JSON body calculation requests
func (s *Server) handleCalculate(c *gin.Context) {
	var raw domain.RawSelection
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewMCPError(domain.ErrInvalidInput,
			"Malformed request body", err.Error(), c.GetString(middleware.CorrelationIDKey)))
		return
	}
	s.calculate(c, raw)
}

// handleCalculateQuery handles query string calculation requests
func (s *Server) handleCalculateQuery(c *gin.Context) {
	var raw domain.RawSelection
	if err := c.ShouldBindQuery(&raw); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewMCPError(domain.ErrInvalidInput,
			"Malformed query", err.Error(), c.GetString(middleware.CorrelationIDKey)))
		return
	}
	s.calculate(c, raw)
}

func (s *Server) calculate(c *gin.Context, raw domain.RawSelection) {
	start := time.Now()
	requestID := c.GetString(middleware.CorrelationIDKey)

	sel, stats, err := s.calculator.CalculateRaw(raw)
	logging.Operation(s.logger, logging.OperationAPIRequest, "calculate", sel, time.Since(start), err)
	if err != nil {
		status, body := errorResponse(err, requestID)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, CalculateResponse{
		Selection:     sel,
		DementiaStats: stats,
		Formatted:     service.Format(stats),
		Report:        service.FormatReport(stats),
	})
}

// recoverPanic answers a panicking handler with a 500 MCPError.
func recoverPanic(logger *logrus.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		requestID := c.GetString(middleware.CorrelationIDKey)
		logger.WithFields(logrus.Fields{
			"correlation_id": requestID,
			"path":           c.Request.URL.Path,
			"panic":          fmt.Sprint(recovered),
		}).Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			domain.NewMCPError(domain.ErrInternalServer, "Internal server error", "", requestID))
	}
}

// errorResponse maps calculator errors to HTTP status codes
func errorResponse(err error, requestID string) (int, *domain.MCPError) {
	var incomplete *domain.IncompleteSelectionError
	if errors.As(err, &incomplete) {
		return http.StatusUnprocessableEntity,
			domain.NewMCPError(domain.ErrIncompleteSelection, incomplete.Error(), incomplete.Field, requestID)
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest,
			domain.NewMCPError(domain.ErrInvalidInput, validation.Error(), validation.Field, requestID)
	}

	return http.StatusInternalServerError,
		domain.NewMCPError(domain.ErrCalculation, "Calculation failed", err.Error(), requestID)
}
