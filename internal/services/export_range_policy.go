package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange is an inclusive calendar-day window. Nil bounds are open.
type ExportRange struct {
	From *time.Time
	To   *time.Time
}

func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (ExportRange, error) {
	from, err := parseExportBound(rawFrom, location)
	if err != nil {
		return ExportRange{}, ErrExportFromDateInvalid
	}
	to, err := parseExportBound(rawTo, location)
	if err != nil {
		return ExportRange{}, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return ExportRange{From: from, To: to}, nil
}

// Contains reports whether event falls inside the window. Undated events only match
// an unbounded window.
func (window ExportRange) Contains(event models.DoseEvent) bool {
	if window.From == nil && window.To == nil {
		return true
	}
	if event.Timestamp == nil {
		return false
	}
	if window.From != nil && event.Timestamp.Before(*window.From) {
		return false
	}
	if window.To != nil && !event.Timestamp.Before(window.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func FilterDoseEvents(events []models.DoseEvent, window ExportRange) []models.DoseEvent {
	filtered := make([]models.DoseEvent, 0, len(events))
	for _, event := range events {
		if window.Contains(event) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func parseExportBound(raw string, location *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation("2006-01-02", trimmed, location)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
