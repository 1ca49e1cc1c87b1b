package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinewatch/marinewatch-go/internal/conf"
)

// createDatabase initializes a temporary SQLite database for testing.
func createDatabase(t *testing.T, settings *conf.Settings) Interface {
	t.Helper()
	tempDir := t.TempDir()
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = tempDir + "/test.db"

	dataStore := New(settings)
	require.NotNil(t, dataStore, "expected a store for enabled SQLite output")

	require.NoError(t, dataStore.Open(), "Failed to open database")

	t.Cleanup(func() {
		assert.NoError(t, dataStore.Close(), "Failed to close datastore")
	})

	return dataStore
}

func floatPtr(v float64) *float64 { return &v }

func TestNew(t *testing.T) {
	t.Run("sqlite enabled", func(t *testing.T) {
		settings := &conf.Settings{}
		settings.Output.SQLite.Enabled = true
		settings.Output.SQLite.Path = "test.db"

		_, ok := New(settings).(*SQLiteStore)
		assert.True(t, ok, "expected a SQLiteStore")
	})

	t.Run("mysql enabled", func(t *testing.T) {
		settings := &conf.Settings{}
		settings.Output.MySQL.Enabled = true

		_, ok := New(settings).(*MySQLStore)
		assert.True(t, ok, "expected a MySQLStore")
	})

	t.Run("nothing enabled", func(t *testing.T) {
		assert.Nil(t, New(&conf.Settings{}), "no enabled output means no store")
	})
}

func TestSQLiteOpen_MissingPath(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true

	store := New(settings)
	require.Error(t, store.Open(), "an empty path must be rejected")
}

func TestSaveSample_DefaultsRecordedAt(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	before := time.Now().UTC().Add(-time.Second)
	sample := &Sample{Location: "reef-1", PH: floatPtr(7.9)}
	require.NoError(t, ds.SaveSample(sample))

	assert.NotZero(t, sample.ID, "insert must assign an ID")
	assert.False(t, sample.RecordedAt.IsZero(), "zero RecordedAt defaults to insertion time")
	assert.True(t, sample.RecordedAt.After(before), "defaulted timestamp should be recent")
}

func TestGetLatestSamples_OrderedByRecordedAt(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order: the newest reading goes in first, then a
	// backfilled older one.
	newest := &Sample{Location: "reef-1", RecordedAt: base.Add(2 * time.Hour)}
	require.NoError(t, ds.SaveSample(newest))
	backfilled := &Sample{Location: "reef-1", RecordedAt: base}
	require.NoError(t, ds.SaveSample(backfilled))
	middle := &Sample{Location: "reef-1", RecordedAt: base.Add(time.Hour)}
	require.NoError(t, ds.SaveSample(middle))

	samples, err := ds.GetLatestSamples(2)
	require.NoError(t, err)

	require.Len(t, samples, 2, "limit must be honored")
	assert.Equal(t, newest.ID, samples[0].ID, "latest is defined by recorded_at, not insertion order")
	assert.Equal(t, middle.ID, samples[1].ID)
}

func TestGetLatestSamples_EmptyStore(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	samples, err := ds.GetLatestSamples(10)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestCountPredictionsSince(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	dayStart := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	insert := func(provider string, createdAt time.Time) {
		t.Helper()
		require.NoError(t, ds.SavePrediction(&Prediction{
			Provider:  provider,
			Model:     "sonar",
			Summary:   "ok",
			CreatedAt: createdAt,
		}))
	}

	insert("perplexity", dayStart.Add(-time.Minute)) // yesterday, excluded
	insert("perplexity", dayStart)                   // boundary, included
	insert("perplexity", dayStart.Add(6*time.Hour))
	insert("other", dayStart.Add(time.Hour)) // different provider, excluded

	count, err := ds.CountPredictionsSince(dayStart, "perplexity")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "count is scoped to the provider and the window start")
}

func TestSavePrediction_SampleReference(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	sample := &Sample{Location: "reef-2"}
	require.NoError(t, ds.SaveSample(sample))

	prediction := &Prediction{
		SampleID: &sample.ID,
		Provider: "perplexity",
		Model:    "sonar",
		Summary:  "assessment",
		Details:  "{}",
	}
	require.NoError(t, ds.SavePrediction(prediction))

	assert.NotZero(t, prediction.ID)
	assert.False(t, prediction.CreatedAt.IsZero(), "zero CreatedAt defaults to insertion time")
}

func TestCameraEvents_WindowAndRecency(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	base := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)

	insert := func(code string, createdAt time.Time) *CameraEvent {
		t.Helper()
		event := &CameraEvent{Code: code, Source: "live-demo", CreatedAt: createdAt}
		require.NoError(t, ds.SaveCameraEvent(event))
		return event
	}

	insert("F", base.Add(-48*time.Hour)) // outside the window
	insert("F", base.Add(-20*time.Hour))
	trash := insert("T", base.Add(-10*time.Hour))
	newest := insert("E", base.Add(-time.Hour))

	since := base.Add(-24 * time.Hour)

	events, err := ds.GetCameraEventsSince(since)
	require.NoError(t, err)
	assert.Len(t, events, 3, "only events inside the window count")

	recent, err := ds.GetRecentCameraEvents(since, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2, "recent page size must be honored")
	assert.Equal(t, newest.ID, recent[0].ID, "recent events are newest first")
	assert.Equal(t, trash.ID, recent[1].ID)
}

func TestSaveCameraEvent_DefaultsCreatedAt(t *testing.T) {
	ds := createDatabase(t, &conf.Settings{})

	event := &CameraEvent{Code: "F"}
	require.NoError(t, ds.SaveCameraEvent(event))

	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero(), "zero CreatedAt defaults to insertion time")
}
