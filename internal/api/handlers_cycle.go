package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ketchup/internal/services"
)

type cycleStartInput struct {
	Date string `json:"date" form:"date"`
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	session := currentSession(c)
	language := handler.currentLanguage(c)

	strategy, err := services.NormalizeCycleStrategy(c.Query("strategy"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "unknown cycle strategy")
	}

	if strategy == services.CycleStrategyDate {
		state, err := handler.cycleTracker.DateState(session.User.ID, handler.now().In(handler.location))
		switch {
		case errors.Is(err, services.ErrCycleStartNotConfigured):
			return apiError(c, fiber.StatusConflict, "cycle start date not configured")
		case err != nil:
			return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to load cycle", "error.load")
		}
		return c.JSON(fiber.Map{
			"strategy":     strategy,
			"day_in_cycle": state.DayInCycle,
			"cycle_day":    state.CycleDay,
			"day_label":    handler.i18n.Translatef(language, "dose.day", state.CycleDay),
			"pill_type":    state.PillType,
			"pill_label":   handler.i18n.Translate(language, services.PillTypeKey(state.PillType)),
		})
	}

	state, err := handler.cycleTracker.CountState(session.User.ID)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to load cycle", "error.load")
	}
	phaseLabel := handler.i18n.Translate(language, services.PhaseKey(state.Phase))
	return c.JSON(fiber.Map{
		"strategy":         strategy,
		"cycle_day":        state.CycleDay,
		"day_label":        handler.i18n.Translatef(language, "dose.day", state.CycleDay),
		"phase":            state.Phase,
		"phase_label":      handler.i18n.Translatef(language, "cycle.phase", phaseLabel),
		"is_warning_phase": state.IsWarningPhase,
		"total_logs":       state.TotalLogs,
		"advisory":         handler.i18n.Translate(language, services.AdvisoryKey(state)),
		"busy":             handler.doseService.IsBusy(session.User.ID),
	})
}

func (handler *Handler) UpdateCycleStart(c *fiber.Ctx) error {
	input := cycleStartInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	day, err := services.ParseCycleStartDate(input.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid cycle start date")
	}

	start, err := handler.setupService.SetCycleStartDate(day)
	switch {
	case errors.Is(err, services.ErrNoPatient):
		return handler.localizedError(c, fiber.StatusConflict, "no patient configured", "gate.no_patient")
	case err != nil:
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to update cycle start", "error.store")
	}
	return c.JSON(fiber.Map{"cycle_start_date": start.Format("2006-01-02")})
}

func (handler *Handler) GetTrend(c *fiber.Ctx) error {
	session := currentSession(c)

	days, ok := parseOptionalPositiveInt(c.Query("days"), services.DefaultTrendDays)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid days")
	}
	if days > services.MaxTrendDays {
		days = services.MaxTrendDays
	}

	points, err := handler.reportService.Trend(session.User.ID, handler.now(), days, handler.location)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to load trend", "error.load")
	}
	return c.JSON(fiber.Map{
		"days":   days,
		"title":  handler.i18n.Translatef(handler.currentLanguage(c), "trend.days", days),
		"points": points,
	})
}
