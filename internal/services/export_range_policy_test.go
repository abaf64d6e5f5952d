package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

func TestParseExportRange(t *testing.T) {
	location := time.UTC

	t.Run("empty range", func(t *testing.T) {
		window, err := ParseExportRange("", "", location)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if window.From != nil || window.To != nil {
			t.Fatalf("expected open bounds, got %+v", window)
		}
	})

	t.Run("valid from and to", func(t *testing.T) {
		window, err := ParseExportRange("2026-02-10", "2026-02-20", location)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if window.From.Format("2006-01-02") != "2026-02-10" || window.To.Format("2006-01-02") != "2026-02-20" {
			t.Fatalf("unexpected range: %+v", window)
		}
	})

	t.Run("invalid from", func(t *testing.T) {
		if _, err := ParseExportRange("not-a-date", "2026-02-20", location); !errors.Is(err, ErrExportFromDateInvalid) {
			t.Fatalf("expected ErrExportFromDateInvalid, got %v", err)
		}
	})

	t.Run("invalid to", func(t *testing.T) {
		if _, err := ParseExportRange("2026-02-10", "2026/02/20", location); !errors.Is(err, ErrExportToDateInvalid) {
			t.Fatalf("expected ErrExportToDateInvalid, got %v", err)
		}
	})

	t.Run("invalid range order", func(t *testing.T) {
		if _, err := ParseExportRange("2026-02-20", "2026-02-10", location); !errors.Is(err, ErrExportRangeInvalid) {
			t.Fatalf("expected ErrExportRangeInvalid, got %v", err)
		}
	})
}

func TestFilterDoseEventsIncludesWholeLastDay(t *testing.T) {
	window, err := ParseExportRange("2026-02-10", "2026-02-11", time.UTC)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}

	before := time.Date(2026, 2, 9, 23, 59, 0, 0, time.UTC)
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	lastMinute := time.Date(2026, 2, 11, 23, 59, 0, 0, time.UTC)
	after := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	events := []models.DoseEvent{
		{ID: 1, Timestamp: &before},
		{ID: 2, Timestamp: &start},
		{ID: 3, Timestamp: &lastMinute},
		{ID: 4, Timestamp: &after},
		{ID: 5, Timestamp: nil},
	}

	filtered := FilterDoseEvents(events, window)
	if len(filtered) != 2 || filtered[0].ID != 2 || filtered[1].ID != 3 {
		t.Fatalf("expected events 2 and 3, got %+v", filtered)
	}

	if all := FilterDoseEvents(events, ExportRange{}); len(all) != 5 {
		t.Fatalf("expected open range to keep undated events, got %d", len(all))
	}
}
