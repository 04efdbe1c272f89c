package calendar

import "github.com/serenenow/scheduling/internal/timezone"

// SlotWindow is one raw bookable interval as the SereneNow API reports it:
// naive UTC timestamps, second precision, no zone suffix.
type SlotWindow struct {
	StartUTC string `json:"startUtc"`
	EndUTC   string `json:"endUtc"`
}

// DisplaySlot is a slot prepared for rendering in the viewer's timezone. The
// original UTC instants ride along so booking submission sends those, never
// times re-derived from the display strings.
type DisplaySlot struct {
	StartUTC string `json:"startUtc"`
	EndUTC   string `json:"endUtc"`
	Start    string `json:"start"` // "HH:MM" in the viewer zone
	End      string `json:"end"`
	Label    string `json:"label"` // "2:00 PM - 3:00 PM"
	Degraded bool   `json:"degraded,omitempty"`
}

// DisplaySlots converts raw UTC windows for display in the given zone. A slot
// whose conversion degrades is still returned, flagged, with best-effort text.
func DisplaySlots(raw []SlotWindow, tz string) []DisplaySlot {
	out := make([]DisplaySlot, 0, len(raw))
	for _, w := range raw {
		start := timezone.UTCToZone(w.StartUTC, tz)
		end := timezone.UTCToZone(w.EndUTC, tz)
		out = append(out, DisplaySlot{
			StartUTC: w.StartUTC,
			EndUTC:   w.EndUTC,
			Start:    start.Value,
			End:      end.Value,
			Label:    timezone.To12Hour(start.Value) + " - " + timezone.To12Hour(end.Value),
			Degraded: start.Degraded || end.Degraded,
		})
	}
	return out
}
