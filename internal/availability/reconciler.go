package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/serenenow/scheduling/internal/timezone"
)

// sentinelAnchorDate anchors recurring unavailable sentinels. Recurring
// records are consumed by day of week only, so the calendar value is
// arbitrary but must be stable.
const sentinelAnchorDate = "2020-01-01"

// Reconciler maps between the API record set and the editable week/time-off
// model. An instance is bound to one viewer timezone: decoding and encoding
// must happen under the same zone, because the edited model stores bare wall
// clocks. Changing the zone requires a fresh fetch and a new Reconciler, never
// a re-decode of already-converted state.
type Reconciler struct {
	tz  string
	now func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides the time source, used to pin "today" in tests. Encoding
// anchors recurring slots on the current date for DST computation.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// NewReconciler creates a reconciler bound to the given viewer timezone.
func NewReconciler(tz string, opts ...Option) *Reconciler {
	r := &Reconciler{tz: tz, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timezone returns the viewer timezone this reconciler is bound to.
func (r *Reconciler) Timezone() string {
	return r.tz
}

// Decode converts the server's record set into the editable model.
//
// Recurring records become the week template: a day with any unavailable
// sentinel is disabled (the sentinel wins over any stray open records), a day
// with only open records is enabled with one slot per record, and a day with
// no records at all is disabled — absence means unavailable. Non-recurring
// sentinels keep the literal date of their start timestamp, which is stored
// unconverted; open non-recurring records are grouped by the date their start
// instant falls on in the viewer timezone, since a morning slot in a zone
// ahead of UTC is stored under the previous UTC date. A group containing a
// sentinel becomes a full-day time off, otherwise each open record becomes one
// custom slot. All clocks are rendered in the viewer timezone.
func (r *Reconciler) Decode(records []Record) (WeekSchedule, []TimeOff, error) {
	week := NewWeekSchedule()

	byDay := make(map[int][]Record)
	byDate := make(map[string][]Record)
	for _, rec := range records {
		if rec.IsRecurring {
			if rec.DayOfWeek < 1 || rec.DayOfWeek > 7 {
				return week, nil, fmt.Errorf("decode: record %q: %w (got %d)", rec.ID, ErrDayOutOfRange, rec.DayOfWeek)
			}
			byDay[rec.DayOfWeek] = append(byDay[rec.DayOfWeek], rec)
			continue
		}
		date := rec.Date()
		if date == "" {
			return week, nil, fmt.Errorf("decode: record %q: %w (got %q)", rec.ID, ErrMalformedTimestamp, rec.StartTime)
		}
		if !rec.IsUnavailable {
			date = timezone.ZoneDate(rec.StartTime, r.tz).Value
		}
		byDate[date] = append(byDate[date], rec)
	}

	for day := 1; day <= 7; day++ {
		group := byDay[day]
		if len(group) == 0 || anyUnavailable(group) {
			continue // stays disabled
		}
		slots := make([]TimeSlot, 0, len(group))
		for _, rec := range group {
			slots = append(slots, r.recordToSlot(rec))
		}
		week[day-1].Enabled = true
		week[day-1].Slots = slots
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	timeOff := make([]TimeOff, 0, len(dates))
	for _, date := range dates {
		group := byDate[date]
		entry := TimeOff{Date: date, CustomSlots: []TimeSlot{}}
		if anyUnavailable(group) {
			entry.IsFullDayOff = true
			entry.ID = firstID(group)
		} else {
			entry.ID = firstID(group)
			for _, rec := range group {
				entry.CustomSlots = append(entry.CustomSlots, r.recordToSlot(rec))
			}
		}
		timeOff = append(timeOff, entry)
	}

	return week, timeOff, nil
}

// Encode converts the editable model back into the full record set the server
// expects: one recurring sentinel per disabled day, one recurring open record
// per slot of each enabled day, and per time off either one full-day
// non-recurring sentinel or one non-recurring open record per custom slot.
// Every save sends this entire set; there is no partial diff.
func (r *Reconciler) Encode(week WeekSchedule, timeOff []TimeOff) ([]Record, error) {
	if err := week.Validate(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	for _, entry := range timeOff {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
	}

	// Recurring rules have no true calendar date; today is the representative
	// instant for computing the zone's UTC offset.
	today := r.now().In(timezone.Location(r.tz)).Format(dateLayout)

	var records []Record
	for i, day := range week {
		dayOfWeek := i + 1
		if !day.Enabled {
			records = append(records, Record{
				DayOfWeek:     dayOfWeek,
				IsRecurring:   true,
				IsUnavailable: true,
				StartTime:     sentinelAnchorDate + "T00:00:00",
				EndTime:       sentinelAnchorDate + "T23:59:00",
			})
			continue
		}
		for _, slot := range day.Slots {
			records = append(records, Record{
				ID:          slot.ID,
				DayOfWeek:   dayOfWeek,
				IsRecurring: true,
				StartTime:   timezone.LocalToUTC(slot.StartTime, today, r.tz).Value,
				EndTime:     timezone.LocalToUTC(slot.EndTime, today, r.tz).Value,
			})
		}
	}

	for _, entry := range timeOff {
		dayOfWeek, err := ISOWeekday(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("encode: time off %q: %w", entry.ID, err)
		}
		if entry.IsFullDayOff {
			records = append(records, Record{
				ID:            entry.ID,
				DayOfWeek:     dayOfWeek,
				IsUnavailable: true,
				StartTime:     entry.Date + "T00:00:00",
				EndTime:       entry.Date + "T23:59:59",
			})
			continue
		}
		for _, slot := range entry.CustomSlots {
			records = append(records, Record{
				ID:        slot.ID,
				DayOfWeek: dayOfWeek,
				StartTime: timezone.LocalToUTC(slot.StartTime, entry.Date, r.tz).Value,
				EndTime:   timezone.LocalToUTC(slot.EndTime, entry.Date, r.tz).Value,
			})
		}
	}

	return records, nil
}

// recordToSlot renders one open record as a wall-clock slot in the viewer
// timezone. Conversion failures degrade to the raw clock text rather than
// dropping the slot.
func (r *Reconciler) recordToSlot(rec Record) TimeSlot {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	return TimeSlot{
		ID:        id,
		StartTime: timezone.UTCToZone(rec.StartTime, r.tz).Value,
		EndTime:   timezone.UTCToZone(rec.EndTime, r.tz).Value,
	}
}

func anyUnavailable(group []Record) bool {
	for _, rec := range group {
		if rec.IsUnavailable {
			return true
		}
	}
	return false
}

func firstID(group []Record) string {
	for _, rec := range group {
		if rec.ID != "" {
			return rec.ID
		}
	}
	return uuid.NewString()
}
