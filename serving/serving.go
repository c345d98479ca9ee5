package serving

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mariushelf/gekkopy/strategy"
)

// This file serves as the main entry point for the serving package. It defines the StratServer struct and its dependencies.
// The actual implementation of the HTTP handlers, server management, middleware, and validation are organized into separate files for better maintainability.
// The package structure is as follows:
// - serving.go: Main server struct and routing (this file)
// - handler.go: HTTP request handlers
// - middleware.go: Middleware functions
// - validator.go: Request validation

// Constants
const (
	ServiceName         = "gekkopy-strat-server"
	ServiceVersion      = "1.0.0"
	DefaultHost         = "localhost"
	DefaultPort         = 2626
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// StrategyResolver is an interface defining the part of the strategy
// registry the server reads.
type StrategyResolver interface {
	Resolve(name string) (*strategy.Session, error)
	Names() []string
}

// StratServer serves registered strategies to engine-side adapters over HTTP
// using the Gin framework.
type StratServer struct {
	strats    StrategyResolver
	validator *Validator
	logger    *slog.Logger
}

// NewStratServer creates a strategy server backed by the given registry
func NewStratServer(strats StrategyResolver, logger *slog.Logger) *StratServer {
	if logger == nil {
		logger = slog.Default()
	}

	return &StratServer{
		strats:    strats,
		validator: GetValidator(),
		logger:    logger,
	}
}

// StartServer starts the HTTP server and blocks until it exits
func (s *StratServer) StartServer(host string, port int) error {
	router := s.SetupRoutes()
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	s.logger.Info("serving strategies",
		slog.String("addr", addr),
		slog.Any("strategies", s.strats.Names()),
	)

	return router.Run(addr)
}

// SetupRoutes configures all API routes
func (s *StratServer) SetupRoutes() *gin.Engine {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(requestIDMiddleware())
	router.Use(requestLoggerMiddleware(s.logger))
	router.Use(gin.CustomRecovery(s.handlePanic))

	// API routes
	router.GET("/strats", s.ListStrats)
	router.GET("/strats/:name/window_size", s.GetWindowSize)
	router.GET("/strats/:name/protocol_version", s.GetProtocolVersion)
	router.POST("/strats/:name/advice", s.PostAdvice)
	router.GET("/health", s.HealthCheck)

	return router
}
