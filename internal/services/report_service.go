package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
)

const (
	ReportRowLimit   = 20
	DefaultTrendDays = 7
	MaxTrendDays     = 90
)

const (
	AdvisoryWarningKey = "advisory.warning"
	AdvisoryStableKey  = "advisory.stable"
)

var ErrReportBuildFailed = errors.New("build dose report failed")

type DoseReport struct {
	PatientName string
	GeneratedAt time.Time
	Rows        []SheetRow
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ReportDoseReader interface {
	ListAll(userID uint) ([]models.DoseEvent, error)
}

type ReportUserLoader interface {
	FindByID(userID uint) (models.User, error)
}

type ReportService struct {
	doses ReportDoseReader
	users ReportUserLoader
}

func NewReportService(doses ReportDoseReader, users ReportUserLoader) *ReportService {
	return &ReportService{doses: doses, users: users}
}

func (service *ReportService) BuildDoseReport(userID uint, now time.Time, location *time.Location) (DoseReport, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return DoseReport{}, ErrReportBuildFailed
	}
	events, err := service.doses.ListAll(userID)
	if err != nil {
		return DoseReport{}, ErrReportBuildFailed
	}
	return DoseReport{
		PatientName: user.DisplayName,
		GeneratedAt: now,
		Rows:        SheetRowsFromDoseEvents(RecentDoseEvents(events, ReportRowLimit), location),
	}, nil
}

func (service *ReportService) ExportRows(userID uint, window ExportRange, location *time.Location) ([]SheetRow, error) {
	events, err := service.doses.ListAll(userID)
	if err != nil {
		return nil, ErrReportBuildFailed
	}
	return SheetRowsFromDoseEvents(FilterDoseEvents(events, window), location), nil
}

func (service *ReportService) Trend(userID uint, now time.Time, days int, location *time.Location) ([]TrendPoint, error) {
	events, err := service.doses.ListAll(userID)
	if err != nil {
		return nil, ErrReportBuildFailed
	}
	return BuildDoseTrend(events, now, days, location), nil
}

// BuildDoseTrend counts events per calendar day for the last days days ending today,
// oldest first. Events without a timestamp are skipped.
func BuildDoseTrend(events []models.DoseEvent, now time.Time, days int, location *time.Location) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	if location == nil {
		location = time.UTC
	}

	today := DateAtLocation(now, location)
	first := today.AddDate(0, 0, -(days - 1))
	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for offset := 0; offset < days; offset++ {
		key := first.AddDate(0, 0, offset).Format(sheetDateLayout)
		points[offset] = TrendPoint{Date: key}
		index[key] = offset
	}

	for _, event := range events {
		if event.Timestamp == nil {
			continue
		}
		key := event.Timestamp.In(location).Format(sheetDateLayout)
		if position, ok := index[key]; ok {
			points[position].Count++
		}
	}
	return points
}

func AdvisoryKey(state CycleState) string {
	if state.IsWarningPhase {
		return AdvisoryWarningKey
	}
	return AdvisoryStableKey
}

func PhaseKey(phase string) string {
	return "phase." + phase
}

func PillTypeKey(pillType string) string {
	return "pill." + pillType
}
