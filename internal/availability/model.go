// Package availability models an expert's bookable hours and reconciles the
// two representations they live in: the flat record set stored by the
// SereneNow API (recurring weekly rules plus date-specific overrides, keyed by
// day of week and UTC timestamps) and the editable week-schedule/time-off
// model shown to the expert in their selected timezone.
package availability

import (
	"fmt"
	"time"

	"github.com/serenenow/scheduling/internal/timezone"
)

// Weekdays is the fixed Monday-first ordering used everywhere in the engine.
// Index i corresponds to wire day-of-week i+1.
var Weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

const dateLayout = "2006-01-02"

// Record is the wire representation of one availability rule.
//
// Recurring records are weekly-template rules: only the time of day of
// StartTime/EndTime is meaningful, the calendar date is an arbitrary anchor.
// Non-recurring records override the weekly template on one specific calendar
// date and their timestamps are full UTC instants. An unavailable record is a
// sentinel marking its day or date as not bookable; it never coexists with
// open slots for the same day selector.
type Record struct {
	ID            string `json:"id,omitempty"` // server-assigned; empty means new
	DayOfWeek     int    `json:"dayOfWeek"`    // 1=Monday .. 7=Sunday
	IsRecurring   bool   `json:"isRecurring"`
	IsUnavailable bool   `json:"isUnavailable"`
	StartTime     string `json:"startTime"` // "2006-01-02T15:04:05", UTC, no zone suffix
	EndTime       string `json:"endTime"`
}

// Validate checks the record's structural invariants.
func (r Record) Validate() error {
	if r.DayOfWeek < 1 || r.DayOfWeek > 7 {
		return fmt.Errorf("record %q: %w (got %d)", r.ID, ErrDayOutOfRange, r.DayOfWeek)
	}
	for _, ts := range []string{r.StartTime, r.EndTime} {
		if len(ts) < len(dateLayout) {
			return fmt.Errorf("record %q: %w (got %q)", r.ID, ErrMalformedTimestamp, ts)
		}
		if _, err := time.Parse(dateLayout, ts[:len(dateLayout)]); err != nil {
			return fmt.Errorf("record %q: %w (got %q)", r.ID, ErrMalformedTimestamp, ts)
		}
	}
	return nil
}

// Date returns the calendar date portion of the record's start timestamp.
func (r Record) Date() string {
	if len(r.StartTime) < len(dateLayout) {
		return ""
	}
	return r.StartTime[:len(dateLayout)]
}

// TimeSlot is one open interval of local wall-clock time. The timezone is
// ambient: whichever zone the surrounding schedule was decoded under.
type TimeSlot struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`
}

// Validate checks clock format and ordering.
func (s TimeSlot) Validate() error {
	sh, sm, err := timezone.ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("slot %q: %w", s.ID, err)
	}
	eh, em, err := timezone.ParseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("slot %q: %w", s.ID, err)
	}
	if eh*60+em <= sh*60+sm {
		return fmt.Errorf("slot %q (%s-%s): %w", s.ID, s.StartTime, s.EndTime, ErrSlotOrder)
	}
	return nil
}

// DaySchedule is one weekday of the recurring template. A disabled day has no
// slots; an enabled day has at least one.
type DaySchedule struct {
	Day     string     `json:"day"`
	Enabled bool       `json:"enabled"`
	Slots   []TimeSlot `json:"slots"`
}

// Validate checks the enabled/slots invariant and each slot.
func (d DaySchedule) Validate() error {
	if d.Enabled && len(d.Slots) == 0 {
		return fmt.Errorf("%s: %w", d.Day, ErrEnabledWithoutSlots)
	}
	if !d.Enabled && len(d.Slots) > 0 {
		return fmt.Errorf("%s: %w", d.Day, ErrDisabledWithSlots)
	}
	for _, s := range d.Slots {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.Day, err)
		}
	}
	return nil
}

// WeekSchedule is the full recurring template, always seven days in fixed
// Monday-to-Sunday order.
type WeekSchedule [7]DaySchedule

// NewWeekSchedule returns an all-disabled week in canonical order.
func NewWeekSchedule() WeekSchedule {
	var week WeekSchedule
	for i, name := range Weekdays {
		week[i] = DaySchedule{Day: name, Enabled: false, Slots: []TimeSlot{}}
	}
	return week
}

// Validate checks canonical day ordering and every day's invariants.
func (w WeekSchedule) Validate() error {
	for i, d := range w {
		if d.Day != Weekdays[i] {
			return fmt.Errorf("day %d: expected %s, got %q", i, Weekdays[i], d.Day)
		}
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TimeOff is a date-specific override replacing the recurring template for
// one calendar date: either the whole day off, or a custom set of slots.
type TimeOff struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"` // "YYYY-MM-DD"
	IsFullDayOff bool       `json:"isFullDayOff"`
	CustomSlots  []TimeSlot `json:"customSlots"`
}

// Validate checks the date format and the full-day/custom-slots invariant.
func (o TimeOff) Validate() error {
	if _, err := time.Parse(dateLayout, o.Date); err != nil {
		return fmt.Errorf("time off %q: %w (got %q)", o.ID, ErrMalformedDate, o.Date)
	}
	if o.IsFullDayOff && len(o.CustomSlots) > 0 {
		return fmt.Errorf("time off %q on %s: %w", o.ID, o.Date, ErrFullDayOffWithSlots)
	}
	if !o.IsFullDayOff && len(o.CustomSlots) == 0 {
		return fmt.Errorf("time off %q on %s: %w", o.ID, o.Date, ErrTimeOffWithoutSlots)
	}
	for _, s := range o.CustomSlots {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("time off on %s: %w", o.Date, err)
		}
	}
	return nil
}

// ISOWeekday maps a calendar date to 1..7 with Monday=1 and Sunday=7.
func ISOWeekday(date string) (int, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("%w (got %q)", ErrMalformedDate, date)
	}
	wd := int(t.Weekday()) // Sunday=0
	if wd == 0 {
		return 7, nil
	}
	return wd, nil
}
