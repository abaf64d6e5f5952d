package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/services"
)

type unlockInput struct {
	Password string `json:"password" form:"password"`
}

func (handler *Handler) Unlock(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.unlockLimiter.tooManyRecent(limiterKey, now, unlockAttemptsLimit, unlockAttemptsWindow) {
		wait := handler.unlockLimiter.retryAfter(limiterKey, now, unlockAttemptsWindow)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many unlock attempts")
	}

	input := unlockInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	session, err := handler.gateService.Unlock(input.Password)
	switch {
	case errors.Is(err, services.ErrGateLocked):
		handler.unlockLimiter.addFailure(limiterKey, now, unlockAttemptsWindow)
		return handler.localizedError(c, fiber.StatusUnauthorized, "invalid password", "gate.locked")
	case errors.Is(err, services.ErrNoPatient):
		return handler.localizedError(c, fiber.StatusConflict, "no patient configured", "gate.no_patient")
	case err != nil:
		handler.logger.WithFields(logrus.Fields{"error": err}).Error("unlock gate")
		return handler.localizedError(c, fiber.StatusInternalServerError, "failed to unlock", "error.load")
	}

	handler.unlockLimiter.reset(limiterKey)
	if err := handler.setAuthCookie(c, session.User); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true, "patient": session.User.DisplayName})
}

func (handler *Handler) Lock(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Session(c *fiber.Ctx) error {
	session := currentSession(c)
	if !services.GateOpen(session) {
		return c.JSON(fiber.Map{"authenticated": false, "patient": ""})
	}
	return c.JSON(fiber.Map{"authenticated": true, "patient": session.User.DisplayName})
}
