package services

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/models"
)

const (
	DefaultDoseCooldown = 500 * time.Millisecond
	RecentDoseLimit     = 3
)

var (
	ErrDoseLogBusy      = errors.New("dose log busy")
	ErrDoseAppendFailed = errors.New("append dose event failed")
	ErrDoseListFailed   = errors.New("list dose events failed")
)

type DoseEventRepository interface {
	Append(event *models.DoseEvent) error
	ListByUser(userID uint) ([]models.DoseEvent, error)
	CountByUser(userID uint) (int64, error)
}

type DosePublisher interface {
	Publish(userID uint, events []models.DoseEvent)
}

type DoseService struct {
	events    DoseEventRepository
	publisher DosePublisher
	logger    logrus.FieldLogger
	cooldown  time.Duration

	now      func() time.Time
	schedule func(time.Duration, func())

	mu   sync.Mutex
	busy map[uint]bool
}

func NewDoseService(events DoseEventRepository, publisher DosePublisher, logger logrus.FieldLogger, cooldown time.Duration) *DoseService {
	if cooldown <= 0 {
		cooldown = DefaultDoseCooldown
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DoseService{
		events:    events,
		publisher: publisher,
		logger:    logger,
		cooldown:  cooldown,
		now:       time.Now,
		schedule: func(delay time.Duration, release func()) {
			time.AfterFunc(delay, release)
		},
		busy: make(map[uint]bool),
	}
}

// LogDose appends one confirmed dose. While a previous write for the same user is
// cooling down the call is rejected with ErrDoseLogBusy.
func (service *DoseService) LogDose(userID uint, input DoseInput) (models.DoseEvent, error) {
	normalized, err := NormalizeDoseInput(input)
	if err != nil {
		return models.DoseEvent{}, err
	}
	if !service.acquire(userID) {
		return models.DoseEvent{}, ErrDoseLogBusy
	}
	defer service.schedule(service.cooldown, func() { service.release(userID) })

	count, err := service.events.CountByUser(userID)
	if err != nil {
		service.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("count dose events")
		return models.DoseEvent{}, ErrDoseAppendFailed
	}

	timestamp := service.now().UTC()
	cycleDay := CycleDayForCount(int(count))
	event := models.DoseEvent{
		UserID:    userID,
		Timestamp: &timestamp,
		CycleDay:  cycleDay,
		Status:    models.DoseStatusConfirmed,
		PillType:  PillTypeForCycleDay(cycleDay),
		Mood:      normalized.Mood,
		Skin:      normalized.Skin,
		Spotting:  normalized.Spotting,
		Source:    models.DoseSourceApp,
	}
	if err := ValidateDoseEvent(event); err != nil {
		return models.DoseEvent{}, err
	}
	if err := service.events.Append(&event); err != nil {
		service.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("append dose event")
		return models.DoseEvent{}, ErrDoseAppendFailed
	}

	service.PublishLatest(userID)
	return event, nil
}

// PublishLatest reloads the full list and hands it to the publisher. A failed reload
// is logged and nothing is published.
func (service *DoseService) PublishLatest(userID uint) {
	if service.publisher == nil {
		return
	}
	events, err := service.ListAll(userID)
	if err != nil {
		return
	}
	service.publisher.Publish(userID, events)
}

func (service *DoseService) ListAll(userID uint) ([]models.DoseEvent, error) {
	events, err := service.events.ListByUser(userID)
	if err != nil {
		service.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("list dose events")
		return nil, ErrDoseListFailed
	}
	SortDoseEventsNewestFirst(events)
	return events, nil
}

func (service *DoseService) Recent(userID uint, limit int) ([]models.DoseEvent, error) {
	events, err := service.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return RecentDoseEvents(events, limit), nil
}

func (service *DoseService) IsBusy(userID uint) bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.busy[userID]
}

// Hold takes the per-user write flag without a cooldown; pair it with Release.
func (service *DoseService) Hold(userID uint) bool {
	return service.acquire(userID)
}

func (service *DoseService) Release(userID uint) {
	service.release(userID)
}

func (service *DoseService) acquire(userID uint) bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.busy[userID] {
		return false
	}
	service.busy[userID] = true
	return true
}

func (service *DoseService) release(userID uint) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.busy, userID)
}
