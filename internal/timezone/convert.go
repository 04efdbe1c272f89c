// Package timezone converts between wall-clock times in named IANA zones and
// UTC instants. Conversions never fail hard: a conversion that cannot be
// performed returns a best-effort fallback marked as degraded, so a bad zone
// id or malformed timestamp degrades display fidelity instead of breaking a
// booking flow.
package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FallbackZone is used when the host zone cannot be determined.
const FallbackZone = "Asia/Kolkata"

const (
	// naiveLayout is the second-precision wire layout with no zone suffix.
	// Zone-less instants are interpreted as UTC.
	naiveLayout = "2006-01-02T15:04:05"
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// Conversion is the outcome of a clock conversion. When Degraded is true the
// conversion could not be performed and Value holds a best-effort fallback;
// Reason says why.
type Conversion struct {
	Value    string
	Degraded bool
	Reason   string
}

func degraded(value, reason string) Conversion {
	return Conversion{Value: value, Degraded: true, Reason: reason}
}

// LocalToUTC converts a wall-clock time ("HH:MM") on a calendar date
// ("YYYY-MM-DD") in the given zone to a naive UTC timestamp string, applying
// the zone's offset as observed on that date. Nonexistent local times around a
// DST spring-forward are normalized onto the following offset and ambiguous
// fall-back times take the first offset, per time.ParseInLocation.
func LocalToUTC(clock, date, tz string) Conversion {
	fallback := date + "T" + normalizeClock(clock)

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return degraded(fallback, fmt.Sprintf("unknown timezone %q", tz))
	}
	local, err := time.ParseInLocation(dateLayout+"T"+clockLayout, date+"T"+clock, loc)
	if err != nil {
		return degraded(fallback, fmt.Sprintf("cannot parse %q %q as local time", date, clock))
	}
	return Conversion{Value: local.UTC().Format(naiveLayout)}
}

// UTCToZone converts a UTC instant to "HH:MM" wall clock in the target zone.
// Instants carrying an explicit offset are honored; zone-less instants are
// assumed UTC. On failure the HH:MM substring of the input (or the raw input)
// is returned as a degraded value.
func UTCToZone(instant, tz string) Conversion {
	fallback := extractClock(instant)

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return degraded(fallback, fmt.Sprintf("unknown timezone %q", tz))
	}
	t, err := parseInstant(instant)
	if err != nil {
		return degraded(fallback, err.Error())
	}
	return Conversion{Value: t.In(loc).Format(clockLayout)}
}

// ZoneDate returns the calendar date ("YYYY-MM-DD") on which a UTC instant
// falls in the target zone. An instant near the UTC midnight boundary can land
// on a different date than its literal prefix. On failure the literal date
// prefix is returned as a degraded value.
func ZoneDate(instant, tz string) Conversion {
	fallback := extractDate(instant)

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return degraded(fallback, fmt.Sprintf("unknown timezone %q", tz))
	}
	t, err := parseInstant(instant)
	if err != nil {
		return degraded(fallback, err.Error())
	}
	return Conversion{Value: t.In(loc).Format(dateLayout)}
}

func extractDate(instant string) string {
	if len(instant) >= len(dateLayout) {
		return instant[:len(dateLayout)]
	}
	return instant
}

// parseInstant parses an instant that may or may not carry zone information.
func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(naiveLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout+"T"+clockLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse instant %q", raw)
}

// To12Hour renders a 24h "HH:MM" clock as "H:MM AM/PM". Hour 0 maps to 12 AM
// and hour 12 to 12 PM. Unparseable input is returned unchanged.
func To12Hour(clock string) string {
	h, m, err := ParseClock(clock)
	if err != nil {
		return clock
	}
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, period)
}

// ParseClock splits "HH:MM" into hour and minute with range validation.
func ParseClock(clock string) (hour, minute int, err error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock %q", clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour in clock %q", clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute in clock %q", clock)
	}
	return hour, minute, nil
}

// SystemZone returns the host's IANA zone id, falling back to FallbackZone
// when the host zone has no usable name.
func SystemZone() string {
	name := time.Local.String()
	if name == "" || name == "Local" {
		return FallbackZone
	}
	return name
}

// Location resolves an IANA zone id, falling back to UTC when the id is empty
// or unknown.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// normalizeClock pads "HH:MM" to second precision for fallback timestamps.
func normalizeClock(clock string) string {
	if len(clock) == len("15:04") {
		return clock + ":00"
	}
	return clock
}

// extractClock pulls the HH:MM portion out of a timestamp-shaped string.
func extractClock(instant string) string {
	if len(instant) >= 16 && instant[10] == 'T' {
		return instant[11:16]
	}
	return instant
}
