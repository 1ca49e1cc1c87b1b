// internal/api/v2/samples.go
package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
)

// Measurement unmarshals a nullable numeric field that may arrive as a
// JSON number or a numeric string. A value that fails coercion is
// treated as absent, never as zero.
type Measurement struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	m.Value = nil

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if !math.IsNaN(num) && !math.IsInf(num, 0) {
			m.Value = &num
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if parsed, err := strconv.ParseFloat(str, 64); err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			m.Value = &parsed
		}
		return nil
	}

	// null or an unexpected shape reads as absent
	return nil
}

// SampleRequest is the ingest payload for one sensor reading. The
// dissolvedOxygen alias is accepted here and canonicalized before any
// business logic runs.
type SampleRequest struct {
	ID                   uint            `json:"id"`
	Location             string          `json:"location"`
	RecordedAt           *time.Time      `json:"recorded_at"`
	PH                   Measurement     `json:"ph"`
	Temperature          Measurement     `json:"temperature"`
	Salinity             Measurement     `json:"salinity"`
	DissolvedOxygen      Measurement     `json:"dissolved_oxygen"`
	DissolvedOxygenAlias Measurement     `json:"dissolvedOxygen"`
	Turbidity            Measurement     `json:"turbidity"`
	Meta                 json.RawMessage `json:"meta"`
}

// ToSample canonicalizes the request into the internal schema.
func (r *SampleRequest) ToSample() *datastore.Sample {
	sample := &datastore.Sample{
		ID:              r.ID,
		Location:        r.Location,
		PH:              r.PH.Value,
		Temperature:     r.Temperature.Value,
		Salinity:        r.Salinity.Value,
		DissolvedOxygen: r.DissolvedOxygen.Value,
		Turbidity:       r.Turbidity.Value,
	}

	if sample.Location == "" {
		sample.Location = "unknown"
	}
	if sample.DissolvedOxygen == nil {
		sample.DissolvedOxygen = r.DissolvedOxygenAlias.Value
	}
	if r.RecordedAt != nil {
		sample.RecordedAt = r.RecordedAt.UTC()
	}
	if len(r.Meta) > 0 {
		sample.Meta = string(r.Meta)
	} else {
		sample.Meta = "{}"
	}

	return sample
}

// CreateSample handles POST /api/v2/samples
func (c *Controller) CreateSample(ctx echo.Context) error {
	var req SampleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid sample payload", http.StatusBadRequest)
	}

	sample := req.ToSample()
	sample.ID = 0 // the store assigns identifiers

	if err := c.DS.SaveSample(sample); err != nil {
		return c.HandleError(ctx, err, "Failed to store sample", http.StatusInternalServerError)
	}

	if c.metrics != nil {
		c.metrics.RecordIngest("sample")
	}
	c.logAPIRequest(ctx, slog.LevelInfo, "Stored sensor sample",
		"sample_id", sample.ID,
		"location", sample.Location,
	)

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"stored":  sample,
	})
}

// GetLatestSamples handles GET /api/v2/samples/latest
func (c *Controller) GetLatestSamples(ctx echo.Context) error {
	limit := defaultLatestLimit
	if limitStr := ctx.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.HandleError(ctx, err, "Invalid limit parameter", http.StatusBadRequest)
		}
		limit = min(parsed, maxLatestLimit)
	}

	samples, err := c.DS.GetLatestSamples(limit)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to fetch samples", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, samples)
}
