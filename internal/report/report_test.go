package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/ketchup/internal/services"
)

func sampleReport(rows int) services.DoseReport {
	doseReport := services.DoseReport{
		PatientName: "Bella",
		GeneratedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	for index := 0; index < rows; index++ {
		doseReport.Rows = append(doseReport.Rows, services.SheetRow{
			Datum: "2026-04-01",
			Tid:   "08:00",
			Typ:   services.SheetTypeActive,
			Humor: "glad",
			Hud:   "fin",
		})
	}
	return doseReport
}

func TestRenderDosePDF(t *testing.T) {
	content, err := RenderDosePDF(sampleReport(services.ReportRowLimit), Labels{})
	if err != nil {
		t.Fatalf("RenderDosePDF() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", content[:min(len(content), 8)])
	}
}

func TestRenderDosePDFWithoutRows(t *testing.T) {
	content, err := RenderDosePDF(sampleReport(0), Labels{Title: "Dose report"})
	if err != nil {
		t.Fatalf("expected empty report to render, got %v", err)
	}
	if len(content) == 0 || !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("expected non-empty PDF for empty input")
	}
}

func TestPDFColumnsOrder(t *testing.T) {
	if strings.Join(PDFColumns, ",") != "Datum,Tid,Typ,Humör,Hud" {
		t.Fatalf("unexpected PDF columns: %v", PDFColumns)
	}
	if len(pdfGridSizes) != len(PDFColumns) {
		t.Fatalf("expected one grid size per column, got %d", len(pdfGridSizes))
	}
	var total uint
	for _, size := range pdfGridSizes {
		total += size
	}
	if total != 12 {
		t.Fatalf("expected grid sizes to fill 12 columns, got %d", total)
	}
}

func TestWriteDoseCSV(t *testing.T) {
	var out bytes.Buffer
	rows := []services.SheetRow{
		{Datum: "2026-04-01", Tid: "08:00", Typ: "Aktiv", Humor: "glad, pigg", Hud: "fin", Spotting: "Nej"},
	}
	if err := WriteDoseCSV(&out, rows); err != nil {
		t.Fatalf("WriteDoseCSV() unexpected error: %v", err)
	}

	expected := "Datum,Tid,Typ,Humör,Hud,Spotting\n2026-04-01,08:00,Aktiv,\"glad, pigg\",fin,Nej\n"
	if out.String() != expected {
		t.Fatalf("expected %q, got %q", expected, out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriteDoseCSVReportsWriterErrors(t *testing.T) {
	if err := WriteDoseCSV(failingWriter{}, nil); err == nil {
		t.Fatal("expected writer error")
	}
}
