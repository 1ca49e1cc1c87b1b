// Package annotation orchestrates the sensor-to-insight pipeline: pick
// an analysis subject, enforce the daily quota, call the completion
// oracle and durably record the result.
package annotation

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"github.com/marinewatch/marinewatch-go/internal/logging"
	"github.com/marinewatch/marinewatch-go/internal/observability"
	"github.com/marinewatch/marinewatch-go/internal/oracle"
	"github.com/marinewatch/marinewatch-go/internal/quota"
)

// Package-level logger for the annotation service
var (
	serviceLogger   *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	serviceLevelVar.Set(slog.LevelDebug)

	serviceLogger, _, err = logging.NewFileLogger("logs/annotation.log", "annotation", serviceLevelVar)
	if err != nil {
		logging.Error("Failed to initialize annotation file logger", "error", err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		serviceLogger = slog.New(fbHandler).With("service", "annotation")
	}
}

// ErrNoSampleAvailable is returned when neither the caller nor the store
// can supply a sample to analyze.
var ErrNoSampleAvailable = errors.New(errors.NewStd("no sample available to analyze")).
	Component("annotation").
	Category(errors.CategoryNotFound).
	Build()

// Result is the outcome of a successful annotation run. The assessment
// text is only ever returned together with its durable record.
type Result struct {
	Text   string
	Stored *datastore.Prediction
}

// Service runs the AI annotation pipeline. All collaborators are
// stateless clients safe for reuse across concurrent invocations; the
// service itself holds no per-request state.
type Service struct {
	ds       datastore.Interface
	gate     *quota.Gate
	provider oracle.Provider
	settings *conf.Settings
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewService creates an annotation service.
func NewService(settings *conf.Settings, ds datastore.Interface, gate *quota.Gate, provider oracle.Provider, metrics *observability.Metrics) *Service {
	return &Service{
		ds:       ds,
		gate:     gate,
		provider: provider,
		settings: settings,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Annotate runs the end-to-end "analyze latest sample" operation.
//
// If subject is nil the most recent stored sample (by recorded_at) is
// used. Each step fails fast with a categorized error; in particular a
// failed prediction insert after a successful oracle call withholds the
// assessment text, so every returned assessment has a durable record.
func (s *Service) Annotate(ctx context.Context, subject *datastore.Sample) (*Result, error) {
	// Step 1: subject resolution
	if subject == nil {
		latest, err := s.ds.GetLatestSamples(1)
		if err != nil {
			serviceLogger.Error("Failed to fetch latest sample", "error", err)
			return nil, err
		}
		if len(latest) == 0 {
			return nil, ErrNoSampleAvailable
		}
		subject = &latest[0]
	}

	// Step 2: quota check, fail closed on unknown quota state
	status, err := s.gate.Check(s.provider.Name(), s.settings.Oracle.QuotaPerDay)
	if err != nil {
		serviceLogger.Error("Quota check failed", "provider", s.provider.Name(), "error", err)
		return nil, err
	}
	if !status.Allowed {
		if s.metrics != nil {
			s.metrics.RecordQuotaRejection(s.provider.Name())
		}
		serviceLogger.Warn("Daily quota exceeded",
			"provider", s.provider.Name(),
			"count", status.Count,
			"limit", status.Limit,
		)
		return nil, &quota.ExceededError{
			Provider: s.provider.Name(),
			Count:    status.Count,
			Limit:    status.Limit,
		}
	}

	// Step 3: prompt composition
	prompt := BuildPrompt(subject)

	// Step 4 and 5: oracle call and text extraction
	callStart := s.now()
	completion, err := s.provider.Complete(ctx, prompt, s.settings.Oracle.MaxTokens)
	if s.metrics != nil {
		s.metrics.RecordOracleCall(s.provider.Name(), err == nil, time.Since(callStart).Seconds())
	}
	if err != nil {
		serviceLogger.Error("Oracle call failed",
			"provider", s.provider.Name(),
			"sample_id", subject.ID,
			"error", err,
		)
		return nil, err
	}

	// Step 6: persistence, exactly one row per accepted request
	prediction := &datastore.Prediction{
		Provider:  completion.Provider,
		Model:     completion.Model,
		Summary:   truncateSummary(completion.Text, s.settings.Oracle.SummaryCap),
		Details:   completion.Raw,
		CreatedAt: s.now().UTC(),
	}
	if subject.ID != 0 {
		id := subject.ID
		prediction.SampleID = &id
	}

	if err := s.ds.SavePrediction(prediction); err != nil {
		// The oracle call already succeeded, but the text must not be
		// returned without a durable record.
		serviceLogger.Error("Failed to store prediction after successful oracle call",
			"provider", completion.Provider,
			"sample_id", subject.ID,
			"error", err,
		)
		return nil, err
	}

	serviceLogger.Info("Stored AI assessment",
		"provider", completion.Provider,
		"model", completion.Model,
		"sample_id", subject.ID,
		"prediction_id", prediction.ID,
		"quota_used", status.Count+1,
		"quota_limit", status.Limit,
	)

	return &Result{
		Text:   completion.Text,
		Stored: prediction,
	}, nil
}

// truncateSummary caps the stored summary length. The raw response is
// kept in full in the details column.
func truncateSummary(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
