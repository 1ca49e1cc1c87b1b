// Package camevents validates camera detection events and aggregates
// them into windowed summaries.
package camevents

import (
	"math"
	"strconv"
	"strings"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
	"github.com/marinewatch/marinewatch-go/internal/errors"
)

// NormalizeCode uppercases a camera event code and checks it against the
// closed set {F, T, E}. Invalid codes are rejected before any store write.
func NormalizeCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	switch normalized {
	case datastore.EventCodeFish, datastore.EventCodeTrash, datastore.EventCodeEmergency:
		return normalized, nil
	default:
		return "", errors.Newf("invalid camera event code %q, must be F, T, or E", code).
			Component("camevents").
			Category(errors.CategoryValidation).
			Build()
	}
}

// CoerceConfidence normalizes a confidence score that may arrive as a
// JSON number or string. A value that fails coercion is treated as
// absent, never as zero.
func CoerceConfidence(value any) *float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}
