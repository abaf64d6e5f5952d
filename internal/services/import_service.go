package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrSheetImportFailed = errors.New("sheet import failed")

// DoseWriteLock serializes writers that assign cycle days from the stored count.
type DoseWriteLock interface {
	Hold(userID uint) bool
	Release(userID uint)
}

type ImportService struct {
	events    DoseEventRepository
	publisher DosePublisher
	logger    logrus.FieldLogger
	lock      DoseWriteLock
}

func NewImportService(events DoseEventRepository, publisher DosePublisher, logger logrus.FieldLogger) *ImportService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ImportService{events: events, publisher: publisher, logger: logger}
}

// WithWriteLock makes imports share the busy flag of live dose logging, so both never
// number cycle days from the same count.
func (service *ImportService) WithWriteLock(lock DoseWriteLock) *ImportService {
	service.lock = lock
	return service
}

// ImportSheetRows appends rows in sheet order. Cycle days continue from the stored
// count the same way LogDose assigns them. The first failure stops the import.
// While a dose write holds the lock the import is rejected with ErrDoseLogBusy.
func (service *ImportService) ImportSheetRows(userID uint, rows []SheetRow, location *time.Location) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if service.lock != nil {
		if !service.lock.Hold(userID) {
			return 0, ErrDoseLogBusy
		}
		defer service.lock.Release(userID)
	}
	count, err := service.events.CountByUser(userID)
	if err != nil {
		service.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("count dose events before import")
		return 0, ErrSheetImportFailed
	}

	imported := 0
	for index, row := range rows {
		if err := ValidateSheetRow(row); err != nil {
			service.logger.WithFields(logrus.Fields{"user_id": userID, "row": index + 1, "tid": row.Tid}).Warn("rejected sheet row time")
			service.publish(userID, imported)
			return imported, err
		}
		event := DoseEventFromSheetRow(row, location)
		event.UserID = userID
		event.CycleDay = CycleDayForCount(int(count) + imported)
		if event.PillType == "" {
			event.PillType = PillTypeForCycleDay(event.CycleDay)
		}
		if err := ValidateDoseEvent(event); err != nil {
			service.logger.WithFields(logrus.Fields{"user_id": userID, "row": index + 1, "error": err}).Warn("rejected sheet row")
			service.publish(userID, imported)
			return imported, err
		}
		if err := service.events.Append(&event); err != nil {
			service.logger.WithFields(logrus.Fields{"user_id": userID, "row": index + 1, "error": err}).Error("append imported dose event")
			service.publish(userID, imported)
			return imported, ErrSheetImportFailed
		}
		imported++
	}

	service.publish(userID, imported)
	return imported, nil
}

func (service *ImportService) publish(userID uint, imported int) {
	if imported == 0 || service.publisher == nil {
		return
	}
	events, err := service.events.ListByUser(userID)
	if err != nil {
		service.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("reload dose events after import")
		return
	}
	SortDoseEventsNewestFirst(events)
	service.publisher.Publish(userID, events)
}
