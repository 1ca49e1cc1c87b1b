// test_utils.go: Package api provides shared test utilities for API v2 tests.

package api

import (
	"context"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/marinewatch/marinewatch-go/internal/annotation"
	"github.com/marinewatch/marinewatch-go/internal/camevents"
	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/oracle"
	"github.com/marinewatch/marinewatch-go/internal/quota"
)

// MockDataStore implements datastore.Interface for testing.
// This is a shared implementation used across all test files.
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Open() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDataStore) SaveSample(sample *datastore.Sample) error {
	args := m.Called(sample)
	return args.Error(0)
}

func (m *MockDataStore) GetLatestSamples(limit int) ([]datastore.Sample, error) {
	args := m.Called(limit)
	return args.Get(0).([]datastore.Sample), args.Error(1)
}

func (m *MockDataStore) SavePrediction(prediction *datastore.Prediction) error {
	args := m.Called(prediction)
	return args.Error(0)
}

func (m *MockDataStore) CountPredictionsSince(since time.Time, provider string) (int64, error) {
	args := m.Called(since, provider)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDataStore) SaveCameraEvent(event *datastore.CameraEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockDataStore) GetCameraEventsSince(since time.Time) ([]datastore.CameraEvent, error) {
	args := m.Called(since)
	return args.Get(0).([]datastore.CameraEvent), args.Error(1)
}

func (m *MockDataStore) GetRecentCameraEvents(since time.Time, limit int) ([]datastore.CameraEvent, error) {
	args := m.Called(since, limit)
	return args.Get(0).([]datastore.CameraEvent), args.Error(1)
}

// MockProvider implements oracle.Provider for testing.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "perplexity"
}

func (m *MockProvider) Complete(ctx context.Context, prompt string, maxTokens int) (*oracle.Completion, error) {
	args := m.Called(prompt, maxTokens)
	var completion *oracle.Completion
	if v := args.Get(0); v != nil {
		completion = v.(*oracle.Completion)
	}
	return completion, args.Error(1)
}

// newTestSettings returns configuration suitable for handler tests.
func newTestSettings() *conf.Settings {
	settings := &conf.Settings{
		Debug: true,
	}
	settings.Oracle = conf.OracleConfig{
		Provider:    "perplexity",
		Model:       "sonar",
		MaxTokens:   250,
		QuotaPerDay: 10,
		SummaryCap:  4000,
	}
	settings.Camera = conf.CameraConfig{
		WindowHours: 24,
		RecentLimit: 20,
	}
	return settings
}

// setupTestEnvironment creates a complete test environment for API tests:
// an Echo instance, a mock datastore and a controller wired with a real
// annotation service and event aggregator on top of the mocks.
func setupTestEnvironment(t *testing.T) (*echo.Echo, *MockDataStore, *Controller) {
	t.Helper()
	e, mockDS, _, controller := setupTestEnvironmentWithProvider(t)
	return e, mockDS, controller
}

// setupTestEnvironmentWithProvider additionally exposes the mock oracle
// provider for tests that drive the analysis pipeline.
func setupTestEnvironmentWithProvider(t *testing.T) (*echo.Echo, *MockDataStore, *MockProvider, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := new(MockDataStore)
	mockProvider := new(MockProvider)
	settings := newTestSettings()

	gate := quota.NewGate(mockDS)
	annotationSvc := annotation.NewService(settings, mockDS, gate, mockProvider, nil)
	aggregator := camevents.NewAggregator(mockDS, settings.Camera.RecentLimit)

	controller := New(e, settings, mockDS, annotationSvc, aggregator, nil)
	t.Cleanup(controller.Shutdown)

	return e, mockDS, mockProvider, controller
}
