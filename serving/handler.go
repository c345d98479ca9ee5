package serving

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mariushelf/gekkopy/strategy"
)

// adviceResponse is the payload of the advice endpoint. Advice is null
// while the strategy's window is still warming up, Remaining then carries
// the number of candles missing before the first advice.
type adviceResponse struct {
	Advice    *string `json:"advice"`
	Remaining int     `json:"remaining,omitempty"`
}

// GetWindowSize handles GET /strats/:name/window_size requests
func (s *StratServer) GetWindowSize(c *gin.Context) {
	session, ok := s.resolveSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_size": session.WindowSize(),
	})
}

// GetProtocolVersion handles GET /strats/:name/protocol_version requests
func (s *StratServer) GetProtocolVersion(c *gin.Context) {
	if _, ok := s.resolveSession(c); !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"protocol_version": strategy.ProtocolVersion,
	})
}

// PostAdvice handles POST /strats/:name/advice requests. The body is a
// JSON array of candle rows, oldest first. All rows are validated before
// any of them reaches the strategy's window, a malformed body leaves the
// window untouched.
func (s *StratServer) PostAdvice(c *gin.Context) {
	session, ok := s.resolveSession(c)
	if !ok {
		return
	}

	var rows [][]float64
	if err := c.ShouldBindJSON(&rows); err != nil {
		s.handleValidationError(c, fmt.Errorf("invalid candle payload: %w", err))
		return
	}

	candles, err := s.validator.ValidateAdviceRequest(rows)
	if err != nil {
		s.handleValidationError(c, err)
		return
	}

	advice, remaining, err := session.Ingest(candles)
	if err != nil {
		s.handleError(c, err, http.StatusInternalServerError, "strategy failure")
		return
	}

	if remaining > 0 {
		c.JSON(http.StatusOK, adviceResponse{Advice: nil, Remaining: remaining})
		return
	}

	value := string(advice)
	c.JSON(http.StatusOK, adviceResponse{Advice: &value})
}

// ListStrats handles GET /strats requests
func (s *StratServer) ListStrats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"strategies": s.strats.Names(),
	})
}

// HealthCheck handles GET /health requests
func (s *StratServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "OK",
		"service":    ServiceName,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"version":    ServiceVersion,
		"strategies": len(s.strats.Names()),
	})
}

// resolveSession resolves the :name path parameter against the registry
// and writes the error response when resolution fails.
func (s *StratServer) resolveSession(c *gin.Context) (*strategy.Session, bool) {
	name := c.Param("name")
	if err := s.validator.ValidateStrategyName(name); err != nil {
		s.handleValidationError(c, err)
		return nil, false
	}

	session, err := s.strats.Resolve(name)
	if err != nil {
		if errors.Is(err, strategy.ErrNotFound) {
			s.handleError(c, err, http.StatusNotFound, err.Error())
		} else {
			s.handleError(c, err, http.StatusInternalServerError, "internal server error")
		}
		return nil, false
	}

	return session, true
}

// handleError logs the error and sends appropriate HTTP response
func (s *StratServer) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID, exists := c.Get(RequestIDContextKey)
	requestIDStr := "unknown"
	if exists {
		if id, ok := requestID.(string); ok {
			requestIDStr = id
		}
	}

	s.logger.Error("request failed",
		slog.String("request_id", requestIDStr),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestIDStr,
	})
}

// handleValidationError handles validation errors specifically
func (s *StratServer) handleValidationError(c *gin.Context, err error) {
	s.handleError(c, err, http.StatusBadRequest, err.Error())
}

// handlePanic converts a panicking strategy into a 500 response instead
// of tearing down the server.
func (s *StratServer) handlePanic(c *gin.Context, recovered any) {
	s.handleError(c, fmt.Errorf("panic: %v", recovered), http.StatusInternalServerError, "strategy failure")
	c.Abort()
}
