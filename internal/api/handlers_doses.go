package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ketchup/internal/services"
)

type doseInput struct {
	Mood     string `json:"mood" form:"mood"`
	Skin     string `json:"skin" form:"skin"`
	Spotting bool   `json:"spotting" form:"spotting"`
}

func (handler *Handler) LogDose(c *fiber.Ctx) error {
	session := currentSession(c)

	input := doseInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}

	event, err := handler.doseService.LogDose(session.User.ID, services.DoseInput{
		Mood:     input.Mood,
		Skin:     input.Skin,
		Spotting: input.Spotting,
	})
	if err != nil {
		return handler.respondDoseError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.doseEventView(event, handler.currentLanguage(c)))
}

func (handler *Handler) ListDoses(c *fiber.Ctx) error {
	session := currentSession(c)

	limit, ok := parseOptionalPositiveInt(c.Query("limit"), 0)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	events, err := handler.doseService.Recent(session.User.ID, limit)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to load doses", "error.load")
	}
	return c.JSON(fiber.Map{
		"doses": handler.doseEventViews(events, handler.currentLanguage(c)),
		"busy":  handler.doseService.IsBusy(session.User.ID),
	})
}

func (handler *Handler) respondDoseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDoseLogBusy):
		return handler.localizedError(c, fiber.StatusConflict, "dose log busy", "dose.busy")
	case errors.Is(err, services.ErrDoseNoteTooLong):
		return apiError(c, fiber.StatusBadRequest, "note too long")
	case errors.Is(err, services.ErrInvalidCycleDay),
		errors.Is(err, services.ErrInvalidDoseStatus),
		errors.Is(err, services.ErrInvalidPillType):
		return apiError(c, fiber.StatusBadRequest, "invalid dose event")
	case errors.Is(err, services.ErrDoseAppendFailed):
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to store dose", "error.store")
	default:
		return apiError(c, fiber.StatusInternalServerError, "failed to log dose")
	}
}
