package datastore

import "time"

// Sample is one timestamped water-quality sensor reading.
// Rows are append-only: created once by ingestion, never mutated.
// "Latest" is always defined by RecordedAt descending, not insertion order.
type Sample struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Location        string    `json:"location"`
	RecordedAt      time.Time `gorm:"index:idx_samples_recorded_at" json:"recorded_at"`
	PH              *float64  `json:"ph"`
	Temperature     *float64  `json:"temperature"`
	Salinity        *float64  `json:"salinity"`
	DissolvedOxygen *float64  `json:"dissolved_oxygen"`
	Turbidity       *float64  `json:"turbidity"`
	Meta            string    `gorm:"type:text" json:"meta"` // opaque JSON annotation
}

// Prediction is one stored AI assessment, linked to at most one Sample.
type Prediction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SampleID  *uint     `gorm:"index" json:"sample_id"`
	Provider  string    `gorm:"index:idx_predictions_provider_created" json:"provider"`
	Model     string    `json:"model"`
	Score     *float64  `json:"score"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Details   string    `gorm:"type:text" json:"details"` // raw oracle response, kept for audit
	CreatedAt time.Time `gorm:"index:idx_predictions_provider_created" json:"created_at"`
}

// Camera event codes form a closed set. Ingestion rejects anything else
// after uppercasing.
const (
	EventCodeFish      = "F"
	EventCodeTrash     = "T"
	EventCodeEmergency = "E"
)

// CameraEvent is one detection record from a field camera or edge classifier.
type CameraEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:1;index" json:"code"`
	Label      string    `json:"label"`
	Confidence *float64  `json:"confidence"`
	Source     string    `json:"source"`
	Lat        *float64  `json:"lat"`
	Lng        *float64  `json:"lng"`
	Meta       string    `gorm:"type:text" json:"meta"`
	CreatedAt  time.Time `gorm:"index:idx_camera_events_created_at" json:"created_at"`
}
