package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ketchup/internal/services"
	"github.com/terraincognita07/ketchup/internal/sheets"
)

// ImportSheet accepts a spreadsheet values payload and appends its rows. Rows stored
// before a rejected row are kept and reported in the response.
func (handler *Handler) ImportSheet(c *fiber.Ctx) error {
	session := currentSession(c)

	rows, err := sheets.ParseValues(c.Body())
	switch {
	case errors.Is(err, sheets.ErrMissingDatumColumn):
		return apiError(c, fiber.StatusBadRequest, "missing Datum column")
	case err != nil:
		return apiError(c, fiber.StatusBadRequest, "invalid sheet values")
	}

	imported, err := handler.importService.ImportSheetRows(session.User.ID, rows, handler.location)
	switch {
	case errors.Is(err, services.ErrDoseLogBusy):
		return handler.localizedError(c, fiber.StatusConflict, "dose log busy", "dose.busy")
	case errors.Is(err, services.ErrSheetImportFailed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":    "failed to store imported rows",
			"message":  handler.i18n.Translate(handler.currentLanguage(c), "error.store"),
			"imported": imported,
		})
	case err != nil:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "invalid sheet row",
			"imported": imported,
		})
	}
	return c.JSON(fiber.Map{"imported": imported, "rows": len(rows)})
}
