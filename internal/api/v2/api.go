// internal/api/v2/api.go
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"github.com/marinewatch/marinewatch-go/internal/annotation"
	"github.com/marinewatch/marinewatch-go/internal/camevents"
	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"github.com/marinewatch/marinewatch-go/internal/logging"
	"github.com/marinewatch/marinewatch-go/internal/observability"
	"github.com/marinewatch/marinewatch-go/internal/quota"
)

const (
	// summaryCacheTTL bounds how stale a cached event summary may be.
	summaryCacheTTL = 30 * time.Second

	// defaultLatestLimit is the sample count returned when the caller
	// does not specify one.
	defaultLatestLimit = 20

	// maxLatestLimit caps the latest-samples page size.
	maxLatestLimit = 500
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo       *echo.Echo
	Group      *echo.Group
	DS         datastore.Interface
	Settings   *conf.Settings
	Annotation *annotation.Service
	Aggregator *camevents.Aggregator

	metrics        *observability.Metrics
	summaryCache   *cache.Cache // cached event summaries keyed by window
	apiLogger      *slog.Logger // structured logger for API operations
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
	startTime      time.Time
}

// New creates a new API controller and registers all routes under /api/v2.
func New(e *echo.Echo, settings *conf.Settings, ds datastore.Interface, annotationSvc *annotation.Service, aggregator *camevents.Aggregator, metrics *observability.Metrics) *Controller {
	c := &Controller{
		Echo:         e,
		DS:           ds,
		Settings:     settings,
		Annotation:   annotationSvc,
		Aggregator:   aggregator,
		metrics:      metrics,
		summaryCache: cache.New(summaryCacheTTL, time.Minute),
		startTime:    time.Now(),
	}

	c.apiLevelVar = new(slog.LevelVar)
	if settings.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	} else {
		c.apiLevelVar.Set(slog.LevelInfo)
	}

	if settings.WebServer.Log.Enabled {
		var err error
		c.apiLogger, c.apiLoggerClose, err = logging.NewFileLogger(settings.WebServer.Log.Path, "api", c.apiLevelVar)
		if err != nil {
			logging.Error("Failed to initialize API file logger", "error", err)
		}
	}
	if c.apiLogger == nil {
		c.apiLogger = logging.ForService("api")
	}

	c.Group = e.Group("/api/v2")
	c.initRoutes()

	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	c.Group.POST("/analyze", c.Analyze)

	samples := c.Group.Group("/samples")
	samples.POST("", c.CreateSample)
	samples.GET("/latest", c.GetLatestSamples)

	camera := c.Group.Group("/camera")
	camera.POST("/events", c.CreateCameraEvent)
	camera.GET("/summary", c.GetCameraSummary)

	maps := c.Group.Group("/map")
	maps.GET("/layers", c.GetOceanLayer)
	maps.GET("/imagery", c.GetMapConfig)
}

// Shutdown releases controller resources.
func (c *Controller) Shutdown() {
	if c.apiLoggerClose != nil {
		if err := c.apiLoggerClose(); err != nil {
			logging.Error("Error closing API log file", "error", err)
		}
	}
	if c.summaryCache != nil {
		c.summaryCache.Flush()
	}
}

// HealthCheck handles GET /api/v2/health
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        c.Settings.Version,
		"uptime_seconds": int(time.Since(c.startTime).Seconds()),
	})
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a short unique identifier for error tracking.
func generateCorrelationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}

		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(code, errorResp)
}

// statusForError maps error categories to HTTP status codes.
func statusForError(err error) int {
	var exceeded *quota.ExceededError
	if errors.As(err, &exceeded) {
		return http.StatusTooManyRequests
	}

	switch {
	case errors.IsCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.IsCategory(err, errors.CategoryNotFound):
		return http.StatusBadRequest
	case errors.IsCategory(err, errors.CategoryOracle), errors.IsCategory(err, errors.CategoryNetwork):
		return http.StatusBadGateway
	case errors.IsCategory(err, errors.CategoryConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// logAPIRequest is a helper to log API requests with common context fields.
func (c *Controller) logAPIRequest(ctx echo.Context, level slog.Level, msg string, args ...any) {
	if c.apiLogger == nil {
		return
	}

	baseAttrs := []any{
		"path", ctx.Request().URL.Path,
		"ip", ctx.RealIP(),
	}
	baseAttrs = append(baseAttrs, args...)

	c.apiLogger.Log(ctx.Request().Context(), level, msg, baseAttrs...)
}
