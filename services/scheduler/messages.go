package scheduler

import (
	"fmt"
	"strings"

	"fitstudio/models"
)

// resultMessage renders a human readable explanation for a suggestion run.
// Every outcome gets one, zero-suggestion outcomes included.
func resultMessage(status string, placed, requested, days int, pref models.ClientPreference) string {
	switch {
	case status == StatusNoAvailability:
		return fmt.Sprintf("No open slots found in the next %d day(s). Try a later start date or another coach.", days)
	case status == StatusInfeasible:
		var b strings.Builder
		fmt.Fprintf(&b, "No slots between %02d:00 and %02d:00 are open in the next %d day(s).",
			pref.PreferredStartHour, pref.PreferredEndHour+1, days)
		if !pref.IsFlexible {
			b.WriteString(" Your preferred hours are strict; allowing flexibility may help.")
		} else {
			b.WriteString(" Widening your preferred hours or date range may help.")
		}
		return b.String()
	case placed < requested:
		return fmt.Sprintf("Found %d of %d requested session(s). Widening your preferred hours or date range may free up the rest.",
			placed, requested)
	default:
		return fmt.Sprintf("Found all %d requested session(s) within your preferences.", requested)
	}
}
