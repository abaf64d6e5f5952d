package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ketchup/internal/services"
)

const (
	authCookieName     = "ketchup_auth"
	languageCookieName = "ketchup_lang"
	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
)

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	return c.Next()
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().AddDate(1, 0, 0),
	})
}

// SessionMiddleware rebuilds the caller's session from the auth cookie. A missing or
// invalid cookie yields a locked session, never an error.
func (handler *Handler) SessionMiddleware(c *fiber.Ctx) error {
	session := services.SessionContext{}
	if userID, err := handler.authenticateRequest(c); err == nil {
		if resumed, err := handler.gateService.Resume(userID); err == nil {
			session = resumed
		}
	}
	c.Locals(contextSessionKey, session)
	return c.Next()
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	if !services.GateOpen(currentSession(c)) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.Next()
}

func currentSession(c *fiber.Ctx) services.SessionContext {
	session, _ := c.Locals(contextSessionKey).(services.SessionContext)
	return session
}

func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
}
