package timezone

import (
	"testing"
)

func TestLocalToUTC(t *testing.T) {
	tests := []struct {
		name         string
		clock        string
		date         string
		tz           string
		want         string
		wantDegraded bool
	}{
		{
			name:  "Kolkata afternoon (UTC+5:30, no DST)",
			clock: "14:00",
			date:  "2025-03-15",
			tz:    "Asia/Kolkata",
			want:  "2025-03-15T08:30:00",
		},
		{
			name:  "New York winter (EST, UTC-5)",
			clock: "09:00",
			date:  "2025-01-10",
			tz:    "America/New_York",
			want:  "2025-01-10T14:00:00",
		},
		{
			name:  "New York summer (EDT, UTC-4) — DST-aware offset",
			clock: "09:00",
			date:  "2025-07-10",
			tz:    "America/New_York",
			want:  "2025-07-10T13:00:00",
		},
		{
			name:  "UTC passthrough",
			clock: "23:30",
			date:  "2025-12-31",
			tz:    "UTC",
			want:  "2025-12-31T23:30:00",
		},
		{
			name:  "crossing midnight into next UTC day",
			clock: "01:00",
			date:  "2025-06-01",
			tz:    "Asia/Kolkata",
			want:  "2025-05-31T19:30:00",
		},
		{
			name:         "unknown zone degrades to input treated as UTC",
			clock:        "10:00",
			date:         "2025-04-01",
			tz:           "Mars/Olympus",
			want:         "2025-04-01T10:00:00",
			wantDegraded: true,
		},
		{
			name:         "garbage clock degrades",
			clock:        "ten o'clock",
			date:         "2025-04-01",
			tz:           "Asia/Kolkata",
			want:         "2025-04-01Tten o'clock",
			wantDegraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalToUTC(tt.clock, tt.date, tt.tz)
			if got.Value != tt.want {
				t.Errorf("LocalToUTC(%q, %q, %q) = %q, want %q", tt.clock, tt.date, tt.tz, got.Value, tt.want)
			}
			if got.Degraded != tt.wantDegraded {
				t.Errorf("Degraded = %v, want %v (reason %q)", got.Degraded, tt.wantDegraded, got.Reason)
			}
		})
	}
}

func TestUTCToZone(t *testing.T) {
	tests := []struct {
		name         string
		instant      string
		tz           string
		want         string
		wantDegraded bool
	}{
		{
			name:    "naive instant assumed UTC",
			instant: "2025-03-15T08:30:00",
			tz:      "Asia/Kolkata",
			want:    "14:00",
		},
		{
			name:    "RFC3339 with offset honored",
			instant: "2025-03-15T08:30:00-05:00",
			tz:      "UTC",
			want:    "13:30",
		},
		{
			name:    "Zulu suffix",
			instant: "2025-03-15T08:30:00Z",
			tz:      "America/New_York",
			want:    "04:30",
		},
		{
			name:    "minute-precision instant",
			instant: "2025-03-15T08:30",
			tz:      "Asia/Kolkata",
			want:    "14:00",
		},
		{
			name:         "unknown zone degrades to substring",
			instant:      "2025-03-15T08:30:00",
			tz:           "Nowhere/Here",
			want:         "08:30",
			wantDegraded: true,
		},
		{
			name:         "unparseable instant degrades to raw input",
			instant:      "soon",
			tz:           "Asia/Kolkata",
			want:         "soon",
			wantDegraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UTCToZone(tt.instant, tt.tz)
			if got.Value != tt.want {
				t.Errorf("UTCToZone(%q, %q) = %q, want %q", tt.instant, tt.tz, got.Value, tt.want)
			}
			if got.Degraded != tt.wantDegraded {
				t.Errorf("Degraded = %v, want %v (reason %q)", got.Degraded, tt.wantDegraded, got.Reason)
			}
		})
	}
}

func TestZoneDate(t *testing.T) {
	tests := []struct {
		name         string
		instant      string
		tz           string
		want         string
		wantDegraded bool
	}{
		{
			name:    "same date",
			instant: "2025-03-15T08:30:00",
			tz:      "Asia/Kolkata",
			want:    "2025-03-15",
		},
		{
			name:    "rolls forward past UTC midnight",
			instant: "2025-12-25T23:00:00",
			tz:      "Australia/Sydney",
			want:    "2025-12-26",
		},
		{
			name:    "rolls back before UTC midnight",
			instant: "2025-03-15T02:00:00",
			tz:      "America/New_York",
			want:    "2025-03-14",
		},
		{
			name:         "unknown zone degrades to literal prefix",
			instant:      "2025-03-15T08:30:00",
			tz:           "Nowhere/Here",
			want:         "2025-03-15",
			wantDegraded: true,
		},
		{
			name:         "unparseable instant degrades to raw input",
			instant:      "soon",
			tz:           "Asia/Kolkata",
			want:         "soon",
			wantDegraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoneDate(tt.instant, tt.tz)
			if got.Value != tt.want {
				t.Errorf("ZoneDate(%q, %q) = %q, want %q", tt.instant, tt.tz, got.Value, tt.want)
			}
			if got.Degraded != tt.wantDegraded {
				t.Errorf("Degraded = %v, want %v (reason %q)", got.Degraded, tt.wantDegraded, got.Reason)
			}
		})
	}
}

// Round trip: converting a wall clock to UTC and back under the same zone
// lands on the original clock, away from DST transition dates.
func TestRoundTrip(t *testing.T) {
	zones := []string{"Asia/Kolkata", "America/New_York", "Europe/London", "Australia/Sydney", "UTC"}
	clocks := []string{"00:00", "06:15", "12:00", "18:45", "23:59"}
	dates := []string{"2025-01-15", "2025-04-20", "2025-07-04", "2025-10-01"}

	for _, tz := range zones {
		for _, d := range dates {
			for _, c := range clocks {
				utc := LocalToUTC(c, d, tz)
				if utc.Degraded {
					t.Fatalf("unexpected degraded conversion for (%s %s %s): %s", c, d, tz, utc.Reason)
				}
				back := UTCToZone(utc.Value, tz)
				if back.Degraded {
					t.Fatalf("unexpected degraded reverse conversion for %q: %s", utc.Value, back.Reason)
				}
				if back.Value != c {
					t.Errorf("round trip (%s %s %s): got %s via %s", c, d, tz, back.Value, utc.Value)
				}
			}
		}
	}
}

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"01:05", "1:05 AM"},
		{"11:59", "11:59 AM"},
		{"12:00", "12:00 PM"},
		{"12:01", "12:01 PM"},
		{"13:00", "1:00 PM"},
		{"23:45", "11:45 PM"},
		{"25:00", "25:00"}, // out of range, returned unchanged
		{"noon", "noon"},
	}
	for _, tt := range tests {
		if got := To12Hour(tt.in); got != tt.want {
			t.Errorf("To12Hour(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	if _, _, err := ParseClock("09:30"); err != nil {
		t.Errorf("ParseClock(09:30) unexpected error: %v", err)
	}
	for _, bad := range []string{"9", "24:00", "12:60", "ab:cd", ""} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestLocation(t *testing.T) {
	if Location("").String() != "UTC" {
		t.Error("empty zone should resolve to UTC")
	}
	if Location("Not/AZone").String() != "UTC" {
		t.Error("unknown zone should resolve to UTC")
	}
	if Location("Asia/Kolkata").String() != "Asia/Kolkata" {
		t.Error("valid zone should resolve to itself")
	}
}
