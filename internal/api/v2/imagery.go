// internal/api/v2/imagery.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marinewatch/marinewatch-go/internal/imagery"
)

// GetOceanLayer handles GET /api/v2/map/layers
func (c *Controller) GetOceanLayer(ctx echo.Context) error {
	layerName := ctx.QueryParam("layer")

	daysAgo := 0
	if daysStr := ctx.QueryParam("days_ago"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			return c.HandleError(ctx, err, "Invalid days_ago parameter", http.StatusBadRequest)
		}
		daysAgo = parsed
	}

	layer, err := imagery.LayerConfig(layerName, daysAgo, time.Now())
	if err != nil {
		return c.HandleError(ctx, err, "Unknown layer", http.StatusBadRequest)
	}

	return ctx.JSON(http.StatusOK, layer)
}

// GetMapConfig handles GET /api/v2/map/imagery
func (c *Controller) GetMapConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, imagery.DefaultMapConfig(time.Now()))
}
