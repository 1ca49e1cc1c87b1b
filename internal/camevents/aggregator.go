package camevents

import (
	"time"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
)

// Narrative thresholds. Fish sightings above the biodiversity threshold
// read as a healthy population; trash detections above the priority
// threshold escalate cleanup urgency.
const (
	fishHealthyThreshold   = 10
	trashPriorityThreshold = 5
)

// Counts tallies detections in a window by code.
type Counts struct {
	Fish      int `json:"fish"`
	Trash     int `json:"trash"`
	Emergency int `json:"emergency"`
	Total     int `json:"total"`
}

// Summary is the aggregated view of camera activity over one window.
type Summary struct {
	WindowHours int                     `json:"window_hours"`
	Counts      Counts                  `json:"counts"`
	Narrative   string                  `json:"narrative"`
	Recent      []datastore.CameraEvent `json:"recent"`
}

// Aggregator computes windowed detection summaries. It performs no
// external calls and no writes.
type Aggregator struct {
	ds          datastore.Interface
	recentLimit int
	now         func() time.Time
}

// NewAggregator creates an aggregator backed by the given store.
func NewAggregator(ds datastore.Interface, recentLimit int) *Aggregator {
	return &Aggregator{
		ds:          ds,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

// SetClock overrides the aggregator's time source. Used in tests.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Summarize tallies detections over the look-back window and derives the
// narrative. Event order within the window is insignificant.
func (a *Aggregator) Summarize(windowHours int) (*Summary, error) {
	since := a.now().Add(-time.Duration(windowHours) * time.Hour)

	events, err := a.ds.GetCameraEventsSince(since)
	if err != nil {
		return nil, err
	}

	counts := TallyCounts(events)

	recent, err := a.ds.GetRecentCameraEvents(since, a.recentLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{
		WindowHours: windowHours,
		Counts:      counts,
		Narrative:   BuildNarrative(counts),
		Recent:      recent,
	}, nil
}

// TallyCounts counts events by code. Rows with codes outside the known
// set are skipped and do not contribute to the total.
func TallyCounts(events []datastore.CameraEvent) Counts {
	var counts Counts
	for i := range events {
		switch events[i].Code {
		case datastore.EventCodeFish:
			counts.Fish++
		case datastore.EventCodeTrash:
			counts.Trash++
		case datastore.EventCodeEmergency:
			counts.Emergency++
		default:
			continue
		}
		counts.Total++
	}
	return counts
}
