package api

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ketchup/internal/report"
	"github.com/terraincognita07/ketchup/internal/services"
)

func (handler *Handler) ReportPDF(c *fiber.Ctx) error {
	session := currentSession(c)
	language := handler.currentLanguage(c)
	now := handler.now().In(handler.location)

	doseReport, err := handler.reportService.BuildDoseReport(session.User.ID, now, handler.location)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to build report", "error.load")
	}

	document, err := report.RenderDosePDF(doseReport, report.Labels{
		Title:     handler.i18n.Translate(language, "report.title"),
		Patient:   handler.i18n.Translate(language, "report.patient"),
		Generated: handler.i18n.Translate(language, "report.generated"),
	})
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to render report")
	}

	setAttachmentHeaders(c, "application/pdf", buildExportFilename(now, "report", "pdf"))
	return c.Send(document)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	session := currentSession(c)
	now := handler.now().In(handler.location)

	window, err := services.ParseExportRange(c.Query("from"), c.Query("to"), handler.location)
	switch {
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	case errors.Is(err, services.ErrExportToDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	case err != nil:
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	rows, err := handler.reportService.ExportRows(session.User.ID, window, handler.location)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to fetch doses", "error.load")
	}

	var output bytes.Buffer
	if err := report.WriteDoseCSV(&output, rows); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setAttachmentHeaders(c, "text/csv", buildExportFilename(now, "export", "csv"))
	return c.Send(output.Bytes())
}
