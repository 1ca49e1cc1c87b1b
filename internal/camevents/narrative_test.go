package camevents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNarrative_NoDetections(t *testing.T) {
	narrative := BuildNarrative(Counts{})

	assert.Equal(t, noDetectionsNarrative, narrative)
	assert.NotContains(t, narrative, "Recommendations", "an empty window carries no recommendations")
}

func TestBuildNarrative_Thresholds(t *testing.T) {
	t.Run("healthy fish population above threshold", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Fish: 11, Total: 11})
		assert.Contains(t, narrative, "Fish detections: 11, indicating healthy marine biodiversity.")
	})

	t.Run("moderate fish population at threshold", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Fish: 10, Total: 10})
		assert.Contains(t, narrative, "indicating moderate marine biodiversity")
	})

	t.Run("high priority trash above threshold", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Trash: 6, Total: 6})
		assert.Contains(t, narrative, "Trash detections: 6, HIGH PRIORITY pollution hotspots identified.")
	})

	t.Run("routine trash at threshold", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Trash: 5, Total: 5})
		assert.Contains(t, narrative, "pollution levels within routine handling capacity")
		assert.NotContains(t, narrative, "HIGH PRIORITY")
	})

	t.Run("emergency triggers critical alert", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Emergency: 1, Total: 1})
		assert.Contains(t, narrative, "CRITICAL ALERT: 1 emergency event(s) require immediate attention.")
	})

	t.Run("no emergency no alert", func(t *testing.T) {
		narrative := BuildNarrative(Counts{Fish: 3, Total: 3})
		assert.NotContains(t, narrative, "CRITICAL ALERT")
	})
}

func TestBuildNarrative_MixedWindow(t *testing.T) {
	narrative := BuildNarrative(Counts{Fish: 12, Trash: 6, Emergency: 1, Total: 19})

	assert.Contains(t, narrative, "healthy marine biodiversity")
	assert.Contains(t, narrative, "HIGH PRIORITY pollution hotspots")
	assert.Contains(t, narrative, "CRITICAL ALERT: 1 emergency event(s)")
}

func TestBuildNarrative_RecommendationOrder(t *testing.T) {
	narrative := BuildNarrative(Counts{Fish: 2, Trash: 1, Emergency: 1, Total: 4})

	lines := strings.Split(narrative, "\n")
	var recs []string
	for _, line := range lines {
		if len(line) > 2 && line[1] == '.' {
			recs = append(recs, line)
		}
	}

	require.Len(t, recs, 4, "all four recommendation kinds apply here")
	assert.Contains(t, recs[0], "1. Continue routine monitoring")
	assert.Contains(t, recs[1], "2. Schedule routine debris collection")
	assert.Contains(t, recs[2], "3. Track fish population trends")
	assert.Contains(t, recs[3], "4. Escalate emergency detections")
}

func TestBuildNarrative_UrgentCleanupRecommendation(t *testing.T) {
	narrative := BuildNarrative(Counts{Trash: 6, Total: 6})

	assert.Contains(t, narrative, "Dispatch urgent cleanup crews")
	assert.NotContains(t, narrative, "Schedule routine debris collection")
}

func TestBuildNarrative_MinimalRecommendations(t *testing.T) {
	// A window with only fish keeps the list to monitoring plus the
	// fish trend item, with contiguous numbering.
	narrative := BuildNarrative(Counts{Fish: 1, Total: 1})

	assert.Contains(t, narrative, "1. Continue routine monitoring")
	assert.Contains(t, narrative, "2. Track fish population trends")
	assert.NotContains(t, narrative, "3.")
}

func TestBuildNarrative_Deterministic(t *testing.T) {
	counts := Counts{Fish: 7, Trash: 2, Total: 9}
	assert.Equal(t, BuildNarrative(counts), BuildNarrative(counts), "same counts must produce the same narrative")
}
