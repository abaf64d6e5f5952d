package sheets

import (
	"errors"
	"strings"

	"github.com/terraincognita07/ketchup/internal/services"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidValuesJSON  = errors.New("sheet values are not valid json")
	ErrMissingDatumColumn = errors.New("sheet header has no Datum column")
)

var headerAliases = map[string]string{
	"datum":    "Datum",
	"date":     "Datum",
	"tid":      "Tid",
	"time":     "Tid",
	"typ":      "Typ",
	"type":     "Typ",
	"humör":    "Humör",
	"humor":    "Humör",
	"mood":     "Humör",
	"hud":      "Hud",
	"skin":     "Hud",
	"spotting": "Spotting",
}

// ParseValues reads a {"values": [[header...], [cells...]]} payload. A bare top-level
// array is accepted too. Missing trailing cells are empty; blank rows are skipped.
func ParseValues(body []byte) ([]services.SheetRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidValuesJSON
	}
	parsed := gjson.ParseBytes(body)
	values := parsed.Get("values")
	if !values.Exists() && parsed.IsArray() {
		values = parsed
	}
	table := values.Array()
	if len(table) == 0 {
		return []services.SheetRow{}, nil
	}

	columns := map[string]int{}
	for index, cell := range table[0].Array() {
		if canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell.String()))]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = index
			}
		}
	}
	if _, ok := columns["Datum"]; !ok {
		return nil, ErrMissingDatumColumn
	}

	rows := make([]services.SheetRow, 0, len(table)-1)
	for _, line := range table[1:] {
		cells := line.Array()
		cell := func(name string) string {
			index, ok := columns[name]
			if !ok || index >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[index].String())
		}

		row := services.SheetRow{
			Datum:    cell("Datum"),
			Tid:      cell("Tid"),
			Typ:      cell("Typ"),
			Humor:    cell("Humör"),
			Hud:      cell("Hud"),
			Spotting: cell("Spotting"),
		}
		if row == (services.SheetRow{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
