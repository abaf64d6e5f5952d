package cli

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/ketchup/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openRuntime(true)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runServer(cmd.Context(), rt)
		},
	}
}

func newApp(rt *appRuntime, handler *api.Handler) (*fiber.App, func()) {
	app := fiber.New(fiber.Config{
		AppName:               "Ketchup",
		DisableStartupMessage: true,
	})

	accessLog := rt.logger.WriterLevel(logrus.InfoLevel)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: accessLog}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/doses/stream"
		},
	}))
	app.Use(handler.LanguageMiddleware)
	api.RegisterRoutes(app, handler)

	return app, func() { _ = accessLog.Close() }
}

func runServer(ctx context.Context, rt *appRuntime) error {
	time.Local = rt.config.Location

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()

	handler, err := api.NewHandler(rt.database, rt.i18n, api.HandlerOptions{
		SecretKey:    rt.config.SecretKey,
		Location:     rt.config.Location,
		CookieSecure: rt.config.CookieSecure,
		DoseCooldown: rt.config.DoseCooldown,
		Logger:       rt.logger,
	})
	if err != nil {
		return err
	}
	handler.WithLifecycle(lifecycleCtx)

	app, closeAccessLog := newApp(rt, handler)
	defer closeAccessLog()

	go func() {
		<-lifecycleCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			rt.logger.WithError(err).Error("server shutdown failed")
		}
	}()

	rt.logger.WithFields(logrus.Fields{
		"port":     rt.config.Port,
		"db":       rt.config.DBPath,
		"timezone": rt.config.Location.String(),
	}).Info("ketchup listening")
	if err := app.Listen(":" + rt.config.Port); err != nil {
		return err
	}
	return nil
}
