// Package quota bounds how many AI completions may succeed per provider
// per UTC day.
package quota

import (
	"fmt"
	"time"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/errors"
)

// Status is the result of one quota evaluation.
type Status struct {
	Allowed bool `json:"allowed"`
	Count   int  `json:"count"`
	Limit   int  `json:"limit"`
}

// ExceededError is returned by the annotation pipeline when the daily
// quota has been reached. It carries the observed count and the limit so
// callers can display them and back off until the next UTC day.
type ExceededError struct {
	Provider string
	Count    int
	Limit    int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("daily quota exceeded for provider %s: %d of %d used", e.Provider, e.Count, e.Limit)
}

// ErrorCategory implements errors.CategorizedError.
func (e *ExceededError) ErrorCategory() errors.ErrorCategory {
	return errors.CategoryLimit
}

// Gate evaluates the daily quota against stored predictions.
//
// The count-then-insert sequence across the gate and the annotation
// pipeline is not atomic: concurrent requests may each observe a count
// below the limit and all proceed, overrunning the quota by at most the
// number of concurrent callers minus one. This bounded overrun is an
// accepted tolerance, not a bug.
type Gate struct {
	ds  datastore.Interface
	now func() time.Time
}

// NewGate creates a quota gate backed by the given store.
func NewGate(ds datastore.Interface) *Gate {
	return &Gate{
		ds:  ds,
		now: time.Now,
	}
}

// SetClock overrides the gate's time source. Used in tests.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Check counts today's predictions for the provider and reports whether
// another completion is permitted. A store failure is returned as an
// error so callers fail closed: no AI call is ever allowed when the
// quota state is unknown.
func (g *Gate) Check(provider string, limit int) (Status, error) {
	dayStart := StartOfUTCDay(g.now())

	count, err := g.ds.CountPredictionsSince(dayStart, provider)
	if err != nil {
		return Status{}, errors.New(err).
			Component("quota").
			Category(errors.CategoryDatabase).
			Context("operation", "count_today").
			Context("provider", provider).
			Build()
	}

	return Status{
		Allowed: count < int64(limit),
		Count:   int(count),
		Limit:   limit,
	}, nil
}

// StartOfUTCDay returns midnight UTC of the day containing t.
func StartOfUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
