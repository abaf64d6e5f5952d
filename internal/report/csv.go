package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/terraincognita07/ketchup/internal/services"
)

// WriteDoseCSV writes a header row followed by one row per dose, in sheet column order.
func WriteDoseCSV(out io.Writer, rows []services.SheetRow) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(services.SheetColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
