package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestReportPDFIsAttachment(t *testing.T) {
	app, _ := newTestApp(t, time.Hour)
	authCookie := unlockAndExtractAuthCookie(t, app, testGatePassword)

	created := doJSON(t, app, http.MethodPost, "/api/doses", authCookie, map[string]any{"mood": "lugn"})
	created.Body.Close()

	response := doJSON(t, app, http.MethodGet, "/api/report.pdf", authCookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected report status 200, got %d", response.StatusCode)
	}
	if got := response.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
	if got := response.Header.Get("Content-Disposition"); !strings.Contains(got, "ketchup-report-") {
		t.Fatalf("expected report attachment filename, got %q", got)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read report body: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("expected pdf document, got prefix %q", body[:min(len(body), 8)])
	}
}

func TestExportCSVWritesSheetColumns(t *testing.T) {
	app, _ := newTestApp(t, time.Hour)
	authCookie := unlockAndExtractAuthCookie(t, app, testGatePassword)

	created := doJSON(t, app, http.MethodPost, "/api/doses", authCookie, map[string]any{"skin": "fin", "spotting": true})
	created.Body.Close()

	response := doJSON(t, app, http.MethodGet, "/api/export.csv", authCookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected export status 200, got %d", response.StatusCode)
	}
	if got := response.Header.Get("Content-Type"); !strings.Contains(got, "text/csv") {
		t.Fatalf("expected text/csv, got %q", got)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read export body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines: %q", len(lines), body)
	}
	if !strings.HasPrefix(lines[0], "Datum,Tid,Typ") {
		t.Fatalf("expected sheet header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Aktiv") || !strings.HasSuffix(strings.TrimSpace(lines[1]), ",fin,Ja") {
		t.Fatalf("expected active row with skin note and spotting, got %q", lines[1])
	}
}

func TestExportCSVValidatesRange(t *testing.T) {
	app, _ := newTestApp(t, time.Hour)
	authCookie := unlockAndExtractAuthCookie(t, app, testGatePassword)

	doGET(t, app, authCookie, "/api/export.csv?from=2026-13-01", http.StatusBadRequest)
	doGET(t, app, authCookie, "/api/export.csv?to=yesterday", http.StatusBadRequest)
	doGET(t, app, authCookie, "/api/export.csv?from=2026-03-10&to=2026-03-01", http.StatusBadRequest)

	body := doGET(t, app, authCookie, "/api/export.csv?from=2020-01-01&to=2020-01-31", http.StatusOK)
	if lines := strings.Split(strings.TrimSpace(body), "\n"); len(lines) != 1 {
		t.Fatalf("expected header only for empty range, got %q", body)
	}
}
