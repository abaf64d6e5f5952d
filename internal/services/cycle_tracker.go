package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

const (
	CycleStrategyCount = "count"
	CycleStrategyDate  = "date"
)

var (
	ErrUnknownCycleStrategy    = errors.New("unknown cycle strategy")
	ErrCycleStartNotConfigured = errors.New("cycle start date not configured")
	ErrCycleStateLoadFailed    = errors.New("load cycle state failed")
)

// CycleState is derived from the number of logged doses.
type CycleState struct {
	CycleDay       int    `json:"cycle_day"`
	Phase          string `json:"phase"`
	IsWarningPhase bool   `json:"is_warning_phase"`
	TotalLogs      int    `json:"total_logs"`
}

// PillCycleState is derived from the calendar distance to the cycle start date.
type PillCycleState struct {
	DayInCycle int    `json:"day_in_cycle"`
	CycleDay   int    `json:"cycle_day"`
	PillType   string `json:"pill_type"`
}

// ComputeCountCycleState expects totalLogs >= 0.
func ComputeCountCycleState(totalLogs int) CycleState {
	cycleDay := CycleDayForCount(totalLogs)
	phase := models.PhaseFollicular
	if cycleDay >= models.WarningPhaseStartDay {
		phase = models.PhaseLuteal
	}
	return CycleState{
		CycleDay:       cycleDay,
		Phase:          phase,
		IsWarningPhase: cycleDay >= models.WarningPhaseStartDay,
		TotalLogs:      totalLogs,
	}
}

func CycleDayForCount(totalLogs int) int {
	return (totalLogs % models.CycleLength) + 1
}

func ComputeDateCycleState(cycleStartDate time.Time, today time.Time) PillCycleState {
	location := today.Location()
	dayInCycle := CalendarDaysBetween(cycleStartDate, today, location) + 1
	cycleDay := floorMod(dayInCycle-1, models.CycleLength) + 1
	return PillCycleState{
		DayInCycle: dayInCycle,
		CycleDay:   cycleDay,
		PillType:   PillTypeForCycleDay(cycleDay),
	}
}

func PillTypeForCycleDay(cycleDay int) string {
	if cycleDay <= models.ActivePillDays {
		return models.PillActive
	}
	return models.PillPlacebo
}

func NormalizeCycleStrategy(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", CycleStrategyCount:
		return CycleStrategyCount, nil
	case CycleStrategyDate:
		return CycleStrategyDate, nil
	default:
		return "", ErrUnknownCycleStrategy
	}
}

func floorMod(value int, modulus int) int {
	result := value % modulus
	if result < 0 {
		result += modulus
	}
	return result
}

type CycleEventCounter interface {
	CountByUser(userID uint) (int64, error)
}

type CycleUserLoader interface {
	FindByID(userID uint) (models.User, error)
}

type CycleTracker struct {
	events CycleEventCounter
	users  CycleUserLoader
}

func NewCycleTracker(events CycleEventCounter, users CycleUserLoader) *CycleTracker {
	return &CycleTracker{events: events, users: users}
}

func (tracker *CycleTracker) CountState(userID uint) (CycleState, error) {
	count, err := tracker.events.CountByUser(userID)
	if err != nil {
		return CycleState{}, ErrCycleStateLoadFailed
	}
	return ComputeCountCycleState(int(count)), nil
}

func (tracker *CycleTracker) DateState(userID uint, now time.Time) (PillCycleState, error) {
	user, err := tracker.users.FindByID(userID)
	if err != nil {
		return PillCycleState{}, ErrCycleStateLoadFailed
	}
	if user.CycleStartDate == nil {
		return PillCycleState{}, ErrCycleStartNotConfigured
	}
	start := *user.CycleStartDate
	anchor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	return ComputeDateCycleState(anchor, now), nil
}
