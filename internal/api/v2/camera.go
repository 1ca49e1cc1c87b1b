// internal/api/v2/camera.go
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marinewatch/marinewatch-go/internal/camevents"
	"github.com/marinewatch/marinewatch-go/internal/datastore"
)

// maxSummaryWindowHours caps the look-back window for event summaries.
const maxSummaryWindowHours = 24 * 30

// CameraEventRequest is the ingest payload for one detection event.
// Confidence may arrive as a number or a numeric string.
type CameraEventRequest struct {
	Code       string          `json:"code"`
	Label      string          `json:"label"`
	Confidence Measurement     `json:"confidence"`
	Source     string          `json:"source"`
	Lat        Measurement     `json:"lat"`
	Lng        Measurement     `json:"lng"`
	Meta       json.RawMessage `json:"meta"`
	CreatedAt  *time.Time      `json:"created_at"`
}

// CreateCameraEvent handles POST /api/v2/camera/events
func (c *Controller) CreateCameraEvent(ctx echo.Context) error {
	var req CameraEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid camera event payload", http.StatusBadRequest)
	}

	// Validation happens before any store write.
	code, err := camevents.NormalizeCode(req.Code)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid code. Must be F, T, or E.", http.StatusBadRequest)
	}

	event := &datastore.CameraEvent{
		Code:       code,
		Label:      req.Label,
		Confidence: req.Confidence.Value,
		Source:     req.Source,
		Lat:        req.Lat.Value,
		Lng:        req.Lng.Value,
	}
	if event.Source == "" {
		event.Source = "live-demo"
	}
	if req.CreatedAt != nil {
		event.CreatedAt = req.CreatedAt.UTC()
	}
	if len(req.Meta) > 0 {
		event.Meta = string(req.Meta)
	}

	if err := c.DS.SaveCameraEvent(event); err != nil {
		return c.HandleError(ctx, err, "Failed to store camera event", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.RecordIngest("camera_event")
	}
	c.logAPIRequest(ctx, slog.LevelInfo, "Stored camera event",
		"event_id", event.ID,
		"code", event.Code,
	)

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"inserted": event,
	})
}

// GetCameraSummary handles GET /api/v2/camera/summary
func (c *Controller) GetCameraSummary(ctx echo.Context) error {
	windowHours := c.Settings.Camera.WindowHours
	if windowStr := ctx.QueryParam("window_hours"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed <= 0 || parsed > maxSummaryWindowHours {
			return c.HandleError(ctx, err, "Invalid window_hours parameter", http.StatusBadRequest)
		}
		windowHours = parsed
	}

	cacheKey := fmt.Sprintf("summary:%d", windowHours)
	if cached, found := c.summaryCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	summary, err := c.Aggregator.Summarize(windowHours)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to summarize camera events", http.StatusInternalServerError)
	}

	c.summaryCache.SetDefault(cacheKey, summary)

	return ctx.JSON(http.StatusOK, summary)
}
