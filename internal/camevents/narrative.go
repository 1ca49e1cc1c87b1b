package camevents

import (
	"fmt"
	"strings"
)

// noDetectionsNarrative is returned whenever the window contains no
// detections at all.
const noDetectionsNarrative = "No camera detections recorded in this window. Monitoring is active and all camera zones are reporting."

// BuildNarrative derives the summary text from the counts. It is a pure
// function: same counts, same narrative.
func BuildNarrative(c Counts) string {
	if c.Total == 0 {
		return noDetectionsNarrative
	}

	var b strings.Builder

	b.WriteString("Camera Event Analysis:\n\n")

	fishQualifier := "moderate"
	if c.Fish > fishHealthyThreshold {
		fishQualifier = "healthy"
	}
	fmt.Fprintf(&b, "Fish detections: %d, indicating %s marine biodiversity.\n", c.Fish, fishQualifier)

	if c.Trash > trashPriorityThreshold {
		fmt.Fprintf(&b, "Trash detections: %d, HIGH PRIORITY pollution hotspots identified.\n", c.Trash)
	} else {
		fmt.Fprintf(&b, "Trash detections: %d, pollution levels within routine handling capacity.\n", c.Trash)
	}

	if c.Emergency > 0 {
		fmt.Fprintf(&b, "CRITICAL ALERT: %d emergency event(s) require immediate attention.\n", c.Emergency)
	}

	b.WriteString("\nRecommendations:\n")
	for i, rec := range recommendations(c) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}

	return strings.TrimRight(b.String(), "\n")
}

// recommendations assembles the action list in fixed precedence order:
// monitoring always, then cleanup, fish-trend and emergency items when
// their counts warrant. Numbering is assigned by list position.
func recommendations(c Counts) []string {
	recs := []string{"Continue routine monitoring across all camera zones."}

	if c.Trash > 0 {
		if c.Trash > trashPriorityThreshold {
			recs = append(recs, "Dispatch urgent cleanup crews to high-trash areas.")
		} else {
			recs = append(recs, "Schedule routine debris collection for affected areas.")
		}
	}

	if c.Fish > 0 {
		recs = append(recs, "Track fish population trends against seasonal baselines.")
	}

	if c.Emergency > 0 {
		recs = append(recs, "Escalate emergency detections to the response team immediately.")
	}

	return recs
}
