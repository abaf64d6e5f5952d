package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	api := app.Group("/api", handler.SessionMiddleware)

	auth := api.Group("/auth")
	auth.Post("/unlock", handler.Unlock)
	auth.Post("/lock", handler.AuthRequired, handler.Lock)
	api.Get("/session", handler.Session)

	doses := api.Group("/doses", handler.AuthRequired)
	doses.Get("", handler.ListDoses)
	doses.Post("", handler.LogDose)
	doses.Get("/stream", handler.StreamDoses)

	api.Get("/cycle", handler.AuthRequired, handler.GetCycle)
	api.Get("/trend", handler.AuthRequired, handler.GetTrend)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Put("/cycle-start", handler.UpdateCycleStart)

	api.Get("/report.pdf", handler.AuthRequired, handler.ReportPDF)
	api.Get("/export.csv", handler.AuthRequired, handler.ExportCSV)
	api.Post("/import/sheet", handler.AuthRequired, handler.ImportSheet)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
