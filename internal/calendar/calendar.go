// Package calendar generates the bookable date grid for the client booking
// flow: every date of a requested month that falls inside the booking window
// (today through a fixed horizon), plus clamped month navigation so the UI
// can never page outside that window. Pure date arithmetic, no I/O.
package calendar

import "time"

// DefaultHorizonMonths is how far ahead of today a client may book.
const DefaultHorizonMonths = 6

const dateLayout = "2006-01-02"

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (m YearMonth) next() YearMonth {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (m YearMonth) prev() YearMonth {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is strictly earlier than other.
func (m YearMonth) Before(other YearMonth) bool {
	return m.Year < other.Year || (m.Year == other.Year && m.Month < other.Month)
}

// DateCell is one selectable date in the booking calendar.
type DateCell struct {
	Date         string `json:"date"` // "YYYY-MM-DD"
	WeekdayLabel string `json:"weekdayLabel"`
	DayNumber    int    `json:"dayNumber"`
}

// MonthDates enumerates every date of the given month inside the window
// [today, today+horizonMonths]. Dates before today or past the horizon are
// omitted; a month entirely outside the window yields an empty slice.
func MonthDates(month YearMonth, today time.Time, horizonMonths int) []DateCell {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	start := civil(today)
	end := start.AddDate(0, horizonMonths, 0)

	cells := []DateCell{}
	for d := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month.Month; d = d.AddDate(0, 0, 1) {
		if d.Before(start) || d.After(end) {
			continue
		}
		cells = append(cells, DateCell{
			Date:         d.Format(dateLayout),
			WeekdayLabel: d.Format("Mon"),
			DayNumber:    d.Day(),
		})
	}
	return cells
}

// Navigate moves delta months from current and clamps the result to the
// window: never before the month containing today, never past the month
// containing today+horizonMonths.
func Navigate(current YearMonth, delta int, today time.Time, horizonMonths int) YearMonth {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	first := YearMonthOf(today)
	last := YearMonthOf(civil(today).AddDate(0, horizonMonths, 0))

	m := current
	for ; delta > 0; delta-- {
		m = m.next()
	}
	for ; delta < 0; delta++ {
		m = m.prev()
	}
	if m.Before(first) {
		return first
	}
	if last.Before(m) {
		return last
	}
	return m
}

// CanNavigatePrev reports whether a previous month exists inside the window.
func CanNavigatePrev(current YearMonth, today time.Time) bool {
	return YearMonthOf(today).Before(current)
}

// CanNavigateNext reports whether a next month exists inside the window.
func CanNavigateNext(current YearMonth, today time.Time, horizonMonths int) bool {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return current.Before(YearMonthOf(civil(today).AddDate(0, horizonMonths, 0)))
}

// civil truncates a timestamp to its calendar date at UTC midnight.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
