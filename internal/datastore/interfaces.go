// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"time"

	"github.com/marinewatch/marinewatch-go/internal/conf"
	"github.com/marinewatch/marinewatch-go/internal/errors"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines
// the operations used by the annotation pipeline and event aggregator.
type Interface interface {
	Open() error
	Close() error
	// samples
	SaveSample(sample *Sample) error
	GetLatestSamples(limit int) ([]Sample, error)
	// predictions
	SavePrediction(prediction *Prediction) error
	CountPredictionsSince(since time.Time, provider string) (int64, error)
	// camera events
	SaveCameraEvent(event *CameraEvent) error
	GetCameraEventsSince(since time.Time) ([]CameraEvent, error)
	GetRecentCameraEvents(since time.Time, limit int) ([]CameraEvent, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new store instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// SaveSample inserts a new sensor sample. A zero RecordedAt defaults to
// the insertion time.
func (ds *DataStore) SaveSample(sample *Sample) error {
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now().UTC()
	}

	if err := ds.DB.Create(sample).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_sample").
			Build()
	}
	return nil
}

// GetLatestSamples returns up to limit samples ordered by recorded_at
// descending. Insertion order is deliberately ignored; backfilled rows
// must not surface as "latest".
func (ds *DataStore) GetLatestSamples(limit int) ([]Sample, error) {
	var samples []Sample
	err := ds.DB.Order("recorded_at DESC").Limit(limit).Find(&samples).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_latest_samples").
			Context("limit", limit).
			Build()
	}
	return samples, nil
}

// SavePrediction inserts a new AI assessment row.
func (ds *DataStore) SavePrediction(prediction *Prediction) error {
	if prediction.CreatedAt.IsZero() {
		prediction.CreatedAt = time.Now().UTC()
	}

	if err := ds.DB.Create(prediction).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_prediction").
			Context("provider", prediction.Provider).
			Build()
	}
	return nil
}

// CountPredictionsSince counts assessments created at or after the given
// time for one provider. Used by the quota gate.
func (ds *DataStore) CountPredictionsSince(since time.Time, provider string) (int64, error) {
	var count int64
	err := ds.DB.Model(&Prediction{}).
		Where("created_at >= ? AND provider = ?", since, provider).
		Count(&count).Error
	if err != nil {
		return 0, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "count_predictions_since").
			Context("provider", provider).
			Build()
	}
	return count, nil
}

// SaveCameraEvent inserts a new detection event. CreatedAt may be
// caller-supplied for backfill; a zero value defaults to insertion time.
func (ds *DataStore) SaveCameraEvent(event *CameraEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := ds.DB.Create(event).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_camera_event").
			Context("code", event.Code).
			Build()
	}
	return nil
}

// GetCameraEventsSince returns all detection events created at or after
// the given time. Order is insignificant to the aggregator, which only
// tallies.
func (ds *DataStore) GetCameraEventsSince(since time.Time) ([]CameraEvent, error) {
	var events []CameraEvent
	err := ds.DB.Where("created_at >= ?", since).Find(&events).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_camera_events_since").
			Build()
	}
	return events, nil
}

// GetRecentCameraEvents returns up to limit events created at or after
// the given time, newest first. Used for the map view on summaries.
func (ds *DataStore) GetRecentCameraEvents(since time.Time, limit int) ([]CameraEvent, error) {
	var events []CameraEvent
	err := ds.DB.Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_recent_camera_events").
			Context("limit", limit).
			Build()
	}
	return events, nil
}
