package services

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/ketchup/internal/models"
)

const MaxDoseNoteLength = 120

var (
	ErrInvalidCycleDay   = errors.New("invalid cycle day")
	ErrInvalidDoseStatus = errors.New("invalid dose status")
	ErrInvalidPillType   = errors.New("invalid pill type")
	ErrDoseNoteTooLong   = errors.New("dose note too long")
)

type DoseInput struct {
	Mood     string
	Skin     string
	Spotting bool
}

// NormalizeDoseInput trims journal notes. Over-long notes are rejected, not truncated.
func NormalizeDoseInput(input DoseInput) (DoseInput, error) {
	input.Mood = strings.TrimSpace(input.Mood)
	input.Skin = strings.TrimSpace(input.Skin)
	if utf8.RuneCountInString(input.Mood) > MaxDoseNoteLength || utf8.RuneCountInString(input.Skin) > MaxDoseNoteLength {
		return input, ErrDoseNoteTooLong
	}
	return input, nil
}

func ValidateDoseEvent(event models.DoseEvent) error {
	if event.CycleDay < 1 || event.CycleDay > models.CycleLength {
		return ErrInvalidCycleDay
	}
	if event.Status != models.DoseStatusConfirmed {
		return ErrInvalidDoseStatus
	}
	switch event.PillType {
	case "", models.PillActive, models.PillPlacebo:
	default:
		return ErrInvalidPillType
	}
	if utf8.RuneCountInString(strings.TrimSpace(event.Mood)) > MaxDoseNoteLength {
		return ErrDoseNoteTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(event.Skin)) > MaxDoseNoteLength {
		return ErrDoseNoteTooLong
	}
	return nil
}

// SortDoseEventsNewestFirst orders in place. Equal timestamps keep ascending ID order.
func SortDoseEventsNewestFirst(events []models.DoseEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		left := events[i].SortTime()
		right := events[j].SortTime()
		if left.Equal(right) {
			return events[i].ID < events[j].ID
		}
		return left.After(right)
	})
}

func RecentDoseEvents(events []models.DoseEvent, limit int) []models.DoseEvent {
	if limit <= 0 || len(events) <= limit {
		result := make([]models.DoseEvent, len(events))
		copy(result, events)
		return result
	}
	result := make([]models.DoseEvent, limit)
	copy(result, events[:limit])
	return result
}
