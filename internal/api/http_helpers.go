package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// localizedError keeps the stable error code and adds a message for display.
func (handler *Handler) localizedError(c *fiber.Ctx, status int, message string, key string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   message,
		"message": handler.i18n.Translate(handler.currentLanguage(c), key),
	})
}

func buildExportFilename(now time.Time, kind string, extension string) string {
	return fmt.Sprintf("ketchup-%s-%s.%s", kind, now.Format("2006-01-02"), extension)
}

func setAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}

// parseOptionalPositiveInt returns fallback for an empty value.
func parseOptionalPositiveInt(raw string, fallback int) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
