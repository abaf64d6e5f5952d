package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ketchup/internal/report"
	"github.com/terraincognita07/ketchup/internal/services"
)

func newReportCommand(options *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the PDF dose summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			now := time.Now().In(rt.config.Location)
			doseReport, err := rt.reports.BuildDoseReport(rt.patient.ID, now, rt.config.Location)
			if err != nil {
				return err
			}
			language := rt.language()
			document, err := report.RenderDosePDF(doseReport, report.Labels{
				Title:     rt.i18n.Translate(language, "report.title"),
				Patient:   rt.i18n.Translate(language, "report.patient"),
				Generated: rt.i18n.Translate(language, "report.generated"),
			})
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}

			if outPath == "" {
				outPath = fmt.Sprintf("ketchup-report-%s.pdf", now.Format("2006-01-02"))
			}
			if err := writeOutputFile(outPath, document); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", rt.i18n.Translate(language, "report.title"), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output file (default ketchup-report-<date>.pdf)")
	return cmd
}

func newExportCSVCommand(options *rootOptions) *cobra.Command {
	var outPath, from, to string
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export doses in spreadsheet columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			window, err := services.ParseExportRange(from, to, rt.config.Location)
			if err != nil {
				return err
			}
			rows, err := rt.reports.ExportRows(rt.patient.ID, window, rt.config.Location)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return report.WriteDoseCSV(cmd.OutOrStdout(), rows)
			}
			var output bytes.Buffer
			if err := report.WriteDoseCSV(&output, rows); err != nil {
				return err
			}
			return writeOutputFile(outPath, output.Bytes())
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")
	cmd.Flags().StringVar(&from, "from", "", "first day YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day YYYY-MM-DD")
	return cmd
}

func writeOutputFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
