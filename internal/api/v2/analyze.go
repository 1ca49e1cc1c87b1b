// internal/api/v2/analyze.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marinewatch/marinewatch-go/internal/annotation"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"github.com/marinewatch/marinewatch-go/internal/quota"
)

// AnalyzeRequest optionally carries the sample to analyze. When absent
// the pipeline falls back to the most recent stored sample.
type AnalyzeRequest struct {
	LatestSample *SampleRequest `json:"latestSample"`
}

// AnalyzeResponse is returned when an assessment was produced and
// durably recorded.
type AnalyzeResponse struct {
	Success bool   `json:"success"`
	AIText  string `json:"ai_text"`
	Stored  any    `json:"stored"`
}

// QuotaExceededResponse reports the observed count and limit so callers
// can back off until the next UTC day.
type QuotaExceededResponse struct {
	Error      string `json:"error"`
	TodayCount int    `json:"today_count"`
	Quota      int    `json:"quota"`
}

// Analyze handles POST /api/v2/analyze
func (c *Controller) Analyze(ctx echo.Context) error {
	var req AnalyzeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid analyze payload", http.StatusBadRequest)
	}

	var result *annotation.Result
	var err error
	if req.LatestSample != nil {
		result, err = c.Annotation.Annotate(ctx.Request().Context(), req.LatestSample.ToSample())
	} else {
		result, err = c.Annotation.Annotate(ctx.Request().Context(), nil)
	}
	if err != nil {
		var exceeded *quota.ExceededError
		if errors.As(err, &exceeded) {
			return ctx.JSON(http.StatusTooManyRequests, QuotaExceededResponse{
				Error:      "Quota exceeded",
				TodayCount: exceeded.Count,
				Quota:      exceeded.Limit,
			})
		}
		if errors.Is(err, annotation.ErrNoSampleAvailable) {
			return c.HandleError(ctx, err, "No sample available to analyze", http.StatusBadRequest)
		}
		return c.HandleError(ctx, err, "Analysis failed", statusForError(err))
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Produced AI assessment",
		"prediction_id", result.Stored.ID,
		"provider", result.Stored.Provider,
	)

	return ctx.JSON(http.StatusOK, AnalyzeResponse{
		Success: true,
		AIText:  result.Text,
		Stored:  result.Stored,
	})
}
