package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

func TestImportSheetRowsContinuesCycleCount(t *testing.T) {
	repo := &doseEventRepositoryStub{}
	for index := 0; index < 26; index++ {
		seed := models.DoseEvent{UserID: 1, CycleDay: 1, Status: models.DoseStatusConfirmed}
		if err := repo.Append(&seed); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}
	publisher := &dosePublisherStub{}
	service := NewImportService(repo, publisher, quietLogger())

	rows := []SheetRow{
		{Datum: "2026-02-01", Tid: "08:00"},
		{Datum: "2026-02-02", Tid: "08:00", Typ: "Aktiv"},
		{Datum: "trasig"},
	}
	imported, err := service.ImportSheetRows(1, rows, time.UTC)
	if err != nil {
		t.Fatalf("ImportSheetRows() unexpected error: %v", err)
	}
	if imported != 3 {
		t.Fatalf("expected 3 rows imported, got %d", imported)
	}

	added := repo.events[26:]
	expectedDays := []int{27, 28, 1}
	for index, event := range added {
		if event.CycleDay != expectedDays[index] {
			t.Fatalf("expected cycle days %v, got %d at %d", expectedDays, event.CycleDay, index)
		}
		if event.UserID != 1 {
			t.Fatalf("expected imported event for user 1, got %d", event.UserID)
		}
	}
	if added[0].PillType != models.PillPlacebo || added[1].PillType != models.PillActive {
		t.Fatalf("expected derived placebo then sheet active, got %q and %q", added[0].PillType, added[1].PillType)
	}
	if added[2].Timestamp != nil {
		t.Fatalf("expected unparsable date to stay nil, got %v", added[2].Timestamp)
	}
	if len(publisher.published) != 1 || len(publisher.published[0]) != 29 {
		t.Fatalf("expected one full publish after import, got %d publishes", len(publisher.published))
	}
}

func TestImportSheetRowsStopsAtFirstFailure(t *testing.T) {
	repo := &doseEventRepositoryStub{appendErr: errors.New("readonly")}
	publisher := &dosePublisherStub{}
	service := NewImportService(repo, publisher, quietLogger())

	imported, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}, {Datum: "2026-02-02"}}, time.UTC)
	if !errors.Is(err, ErrSheetImportFailed) {
		t.Fatalf("expected ErrSheetImportFailed, got %v", err)
	}
	if imported != 0 || repo.appended != 1 {
		t.Fatalf("expected stop after first failure, imported=%d attempts=%d", imported, repo.appended)
	}
	if len(publisher.published) != 0 {
		t.Fatal("expected no publish when nothing was imported")
	}
}

func TestImportSheetRowsRejectsLongNotes(t *testing.T) {
	repo := &doseEventRepositoryStub{}
	service := NewImportService(repo, nil, quietLogger())

	long := make([]byte, MaxDoseNoteLength+1)
	for index := range long {
		long[index] = 'x'
	}
	imported, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}, {Datum: "2026-02-02", Hud: string(long)}}, time.UTC)
	if !errors.Is(err, ErrDoseNoteTooLong) {
		t.Fatalf("expected ErrDoseNoteTooLong, got %v", err)
	}
	if imported != 1 {
		t.Fatalf("expected first row kept, got %d", imported)
	}
}

func TestImportSheetRowsRejectsUnreadableTime(t *testing.T) {
	repo := &doseEventRepositoryStub{}
	publisher := &dosePublisherStub{}
	service := NewImportService(repo, publisher, quietLogger())

	rows := []SheetRow{{Datum: "2026-02-01", Tid: "08:00"}, {Datum: "2026-02-02", Tid: "25:99"}, {Datum: "2026-02-03"}}
	imported, err := service.ImportSheetRows(1, rows, time.UTC)
	if !errors.Is(err, ErrInvalidSheetTime) {
		t.Fatalf("expected ErrInvalidSheetTime, got %v", err)
	}
	if imported != 1 || len(repo.events) != 1 {
		t.Fatalf("expected only the first row stored, imported=%d stored=%d", imported, len(repo.events))
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected the kept row to be published, got %d", len(publisher.published))
	}
}

type writeLockStub struct {
	held     bool
	holds    int
	releases int
}

func (stub *writeLockStub) Hold(uint) bool {
	if stub.held {
		return false
	}
	stub.holds++
	return true
}

func (stub *writeLockStub) Release(uint) {
	stub.releases++
}

func TestImportSheetRowsSharesDoseWriteLock(t *testing.T) {
	repo := &doseEventRepositoryStub{}
	lock := &writeLockStub{held: true}
	service := NewImportService(repo, nil, quietLogger()).WithWriteLock(lock)

	imported, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}}, time.UTC)
	if !errors.Is(err, ErrDoseLogBusy) {
		t.Fatalf("expected ErrDoseLogBusy while a dose write is pending, got %v", err)
	}
	if imported != 0 || repo.appended != 0 {
		t.Fatalf("expected nothing stored while busy, imported=%d attempts=%d", imported, repo.appended)
	}

	lock.held = false
	if _, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}}, time.UTC); err != nil {
		t.Fatalf("ImportSheetRows() unexpected error: %v", err)
	}
	if lock.holds != 1 || lock.releases != 1 {
		t.Fatalf("expected one hold and release, got holds=%d releases=%d", lock.holds, lock.releases)
	}
}

func TestImportSheetRowsAndLogDoseNumberDaysWithoutOverlap(t *testing.T) {
	repo := &doseEventRepositoryStub{}
	doses, scheduler := newDoseServiceForTest(repo, nil)
	service := NewImportService(repo, nil, quietLogger()).WithWriteLock(doses)

	if _, err := doses.LogDose(1, DoseInput{}); err != nil {
		t.Fatalf("LogDose() unexpected error: %v", err)
	}
	if _, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}}, time.UTC); !errors.Is(err, ErrDoseLogBusy) {
		t.Fatalf("expected import to wait for the dose cooldown, got %v", err)
	}

	scheduler.fireAll()
	if _, err := service.ImportSheetRows(1, []SheetRow{{Datum: "2026-02-01"}}, time.UTC); err != nil {
		t.Fatalf("ImportSheetRows() unexpected error: %v", err)
	}
	if doses.IsBusy(1) {
		t.Fatal("expected import to release the write flag")
	}
	if len(repo.events) != 2 || repo.events[0].CycleDay != 1 || repo.events[1].CycleDay != 2 {
		t.Fatalf("expected cycle days 1 and 2, got %+v", repo.events)
	}
}

func TestImportSheetRowsEmpty(t *testing.T) {
	service := NewImportService(&doseEventRepositoryStub{countErr: errors.New("unused")}, nil, quietLogger())
	if imported, err := service.ImportSheetRows(1, nil, time.UTC); err != nil || imported != 0 {
		t.Fatalf("expected no-op for empty rows, got %d err=%v", imported, err)
	}
}
