package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/models"
	"github.com/valyala/fasthttp"
)

const streamKeepAliveInterval = 20 * time.Second

// StreamDoses pushes the full ordered dose list as server-sent events. Every change
// replaces the previous list on the client.
func (handler *Handler) StreamDoses(c *fiber.Ctx) error {
	session := currentSession(c)
	userID := session.User.ID
	language := handler.currentLanguage(c)

	initial, err := handler.doseService.ListAll(userID)
	if err != nil {
		return handler.localizedError(c, fiber.StatusServiceUnavailable, "failed to load doses", "error.load")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := handler.lifecycle
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(writer *bufio.Writer) {
		handler.streamDoseSnapshots(ctx, writer, userID, language, initial)
	}))
	return nil
}

// streamDoseSnapshots writes the initial list, then one snapshot per published change
// until ctx ends or the client goes away. Only the newest pending list is kept.
func (handler *Handler) streamDoseSnapshots(ctx context.Context, writer *bufio.Writer, userID uint, language string, initial []models.DoseEvent) {
	updates := make(chan []models.DoseEvent, 1)
	unsubscribe := handler.feed.Subscribe(userID, func(events []models.DoseEvent) {
		for {
			select {
			case updates <- events:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := handler.writeSnapshot(writer, language, initial); err != nil {
		return
	}

	keepAlive := time.NewTicker(streamKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case events := <-updates:
			if err := handler.writeSnapshot(writer, language, events); err != nil {
				handler.logger.WithFields(logrus.Fields{"user_id": userID, "error": err}).Debug("dose stream closed")
				return
			}
		case <-keepAlive.C:
			if _, err := writer.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			if err := writer.Flush(); err != nil {
				return
			}
		}
	}
}

func (handler *Handler) writeSnapshot(writer *bufio.Writer, language string, events []models.DoseEvent) error {
	payload, err := json.Marshal(handler.doseEventViews(events, language))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "event: snapshot\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return writer.Flush()
}
