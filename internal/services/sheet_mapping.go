package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

const (
	sheetDateLayout = "2006-01-02"
	sheetTimeLayout = "15:04"
)

const (
	SheetTypeActive  = "Aktiv"
	SheetTypePlacebo = "Placebo"
	SheetYes         = "Ja"
	SheetNo          = "Nej"
)

var ErrInvalidSheetTime = errors.New("invalid sheet time")

// SheetColumns is the header order of the shared patient spreadsheet.
var SheetColumns = []string{"Datum", "Tid", "Typ", "Humör", "Hud", "Spotting"}

type SheetRow struct {
	Datum    string `json:"datum"`
	Tid      string `json:"tid"`
	Typ      string `json:"typ"`
	Humor    string `json:"humor"`
	Hud      string `json:"hud"`
	Spotting string `json:"spotting"`
}

// Values returns the cells in SheetColumns order.
func (row SheetRow) Values() []string {
	return []string{row.Datum, row.Tid, row.Typ, row.Humor, row.Hud, row.Spotting}
}

func SheetRowFromDoseEvent(event models.DoseEvent, location *time.Location) SheetRow {
	if location == nil {
		location = time.UTC
	}
	row := SheetRow{
		Typ:      sheetTypeLabel(event),
		Humor:    event.Mood,
		Hud:      event.Skin,
		Spotting: SheetNo,
	}
	if event.Spotting {
		row.Spotting = SheetYes
	}
	if event.Timestamp != nil {
		local := event.Timestamp.In(location)
		row.Datum = local.Format(sheetDateLayout)
		row.Tid = local.Format(sheetTimeLayout)
	}
	return row
}

func SheetRowsFromDoseEvents(events []models.DoseEvent, location *time.Location) []SheetRow {
	rows := make([]SheetRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, SheetRowFromDoseEvent(event, location))
	}
	return rows
}

// DoseEventFromSheetRow maps a spreadsheet row onto an unsaved event. CycleDay is left
// for the caller. An unparsable date leaves Timestamp nil; callers reject a bad Tid with
// ValidateSheetRow first.
func DoseEventFromSheetRow(row SheetRow, location *time.Location) models.DoseEvent {
	if location == nil {
		location = time.UTC
	}
	event := models.DoseEvent{
		Status:   models.DoseStatusConfirmed,
		PillType: parseSheetType(row.Typ),
		Mood:     strings.TrimSpace(row.Humor),
		Skin:     strings.TrimSpace(row.Hud),
		Spotting: parseSheetBool(row.Spotting),
		Source:   models.DoseSourceSheet,
	}
	if timestamp, ok := parseSheetTimestamp(row.Datum, row.Tid, location); ok {
		event.Timestamp = &timestamp
	}
	return event
}

func sheetTypeLabel(event models.DoseEvent) string {
	pillType := event.PillType
	if pillType == "" && event.CycleDay > 0 {
		pillType = PillTypeForCycleDay(event.CycleDay)
	}
	switch pillType {
	case models.PillActive:
		return SheetTypeActive
	case models.PillPlacebo:
		return SheetTypePlacebo
	default:
		return ""
	}
}

func parseSheetType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "aktiv", "active":
		return models.PillActive
	case "placebo":
		return models.PillPlacebo
	default:
		return ""
	}
}

func parseSheetBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ja", "yes", "true", "1", "x":
		return true
	default:
		return false
	}
}

// ValidateSheetRow rejects a Tid cell that is present but not a clock time. An empty Tid
// is midnight and an unreadable Datum leaves the event undated.
func ValidateSheetRow(row SheetRow) error {
	clock := strings.TrimSpace(row.Tid)
	if clock == "" {
		return nil
	}
	if _, ok := parseSheetClock(clock); !ok {
		return ErrInvalidSheetTime
	}
	return nil
}

func parseSheetTimestamp(rawDate string, rawTime string, location *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(sheetDateLayout, strings.TrimSpace(rawDate), location)
	if err != nil {
		return time.Time{}, false
	}
	clock, ok := parseSheetClock(strings.TrimSpace(rawTime))
	if !ok {
		return day.UTC(), true
	}
	combined := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, location)
	return combined.UTC(), true
}

func parseSheetClock(clock string) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{sheetTimeLayout, "15:04:05", "15.04"} {
		if parsed, err := time.Parse(layout, clock); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
