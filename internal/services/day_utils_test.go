package services

import (
	"testing"
	"time"
)

func TestDayRangeNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 2, 1, 23, 35, 10, 0, time.UTC)
	start, end := DayRange(raw, location)

	if start.Format("2006-01-02 15:04") != "2026-02-02 00:00" {
		t.Fatalf("expected local midnight of 2026-02-02, got %s", start.Format("2006-01-02 15:04"))
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected end one day after start, got %s", end)
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "same day",
			start: time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "across month",
			start: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			want:  3,
		},
		{
			name:  "end before start",
			start: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  -4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarDaysBetween(tt.start, tt.end, time.UTC); got != tt.want {
				t.Fatalf("CalendarDaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalendarDaysBetweenIgnoresDSTShift(t *testing.T) {
	location, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	start := time.Date(2026, 3, 28, 12, 0, 0, 0, location)
	end := time.Date(2026, 3, 30, 12, 0, 0, 0, location)
	if got := CalendarDaysBetween(start, end, location); got != 2 {
		t.Fatalf("expected 2 days across DST change, got %d", got)
	}
}
