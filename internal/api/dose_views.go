package api

import (
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
	"github.com/terraincognita07/ketchup/internal/services"
)

type doseEventView struct {
	ID        string     `json:"id"`
	Timestamp *time.Time `json:"timestamp"`
	CycleDay  int        `json:"cycle_day"`
	DayLabel  string     `json:"day_label"`
	Status    string     `json:"status"`
	PillType  string     `json:"pill_type"`
	PillLabel string     `json:"pill_label"`
	Mood      string     `json:"mood"`
	Skin      string     `json:"skin"`
	Spotting  bool       `json:"spotting"`
	Source    string     `json:"source"`
}

func (handler *Handler) doseEventViews(events []models.DoseEvent, language string) []doseEventView {
	views := make([]doseEventView, 0, len(events))
	for _, event := range events {
		views = append(views, handler.doseEventView(event, language))
	}
	return views
}

func (handler *Handler) doseEventView(event models.DoseEvent, language string) doseEventView {
	view := doseEventView{
		ID:        event.PublicID,
		CycleDay:  event.CycleDay,
		DayLabel:  handler.i18n.Translatef(language, "dose.day", event.CycleDay),
		Status:    event.Status,
		PillType:  event.PillType,
		PillLabel: handler.i18n.Translate(language, services.PillTypeKey(event.PillType)),
		Mood:      event.Mood,
		Skin:      event.Skin,
		Spotting:  event.Spotting,
		Source:    event.Source,
	}
	if event.Timestamp != nil {
		local := event.Timestamp.In(handler.location)
		view.Timestamp = &local
	}
	return view
}
