package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marinewatch/marinewatch-go/internal/datastore"
)

// unavailableMarker is rendered in place of a missing measurement so the
// oracle always sees a complete, consistently shaped prompt.
const unavailableMarker = "unavailable"

// BuildPrompt renders the fixed-shape analysis prompt for one sample.
// It is a pure function of the sample's measurements.
func BuildPrompt(sample *datastore.Sample) string {
	var b strings.Builder

	b.WriteString("Analyze ocean water health using these parameters:\n")
	fmt.Fprintf(&b, "pH: %s\n", formatMeasurement(sample.PH))
	fmt.Fprintf(&b, "Temperature: %s °C\n", formatMeasurement(sample.Temperature))
	fmt.Fprintf(&b, "Salinity: %s\n", formatMeasurement(sample.Salinity))
	fmt.Fprintf(&b, "Dissolved Oxygen: %s\n", formatMeasurement(sample.DissolvedOxygen))
	fmt.Fprintf(&b, "Turbidity: %s\n", formatMeasurement(sample.Turbidity))
	b.WriteString("\nProvide a short (2-4 sentence) assessment and suggested actions if needed.")

	return b.String()
}

// formatMeasurement renders a nullable measurement, substituting the
// unavailable marker for absent values.
func formatMeasurement(v *float64) string {
	if v == nil {
		return unavailableMarker
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
