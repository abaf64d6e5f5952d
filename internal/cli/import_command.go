package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ketchup/internal/services"
	"github.com/terraincognita07/ketchup/internal/sheets"
)

const sheetFetchTimeout = 30 * time.Second

func newImportSheetCommand(options *rootOptions) *cobra.Command {
	var filePath, sheetURL string
	cmd := &cobra.Command{
		Use:   "import-sheet",
		Short: "Import rows from the patient spreadsheet",
		Long:  "Reads a spreadsheet values payload from --file, or fetches it from --url (default sheet.url) and appends every row.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			rows, err := loadSheetRows(cmd, rt, filePath, sheetURL)
			if err != nil {
				return err
			}

			imported, err := rt.imports.ImportSheetRows(rt.patient.ID, rows, rt.config.Location)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d rows\n", imported, len(rows))
			return err
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "values JSON file")
	cmd.Flags().StringVar(&sheetURL, "url", "", "values endpoint (default sheet.url)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func loadSheetRows(cmd *cobra.Command, rt *appRuntime, filePath string, sheetURL string) ([]services.SheetRow, error) {
	if filePath != "" {
		body, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		return sheets.ParseValues(body)
	}

	if sheetURL == "" {
		sheetURL = rt.config.Sheet.URL
	}
	if sheetURL == "" {
		return nil, errors.New("either --file or --url (or sheet.url) is required")
	}

	client := sheets.NewClient(sheets.Options{
		URL:      sheetURL,
		Token:    rt.config.Sheet.Token,
		RetryMax: rt.config.Sheet.RetryMax,
	})
	ctx, cancel := withTimeout(cmd, sheetFetchTimeout)
	defer cancel()
	return client.FetchRows(ctx)
}
