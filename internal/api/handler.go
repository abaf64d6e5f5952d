package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/db"
	"github.com/terraincognita07/ketchup/internal/i18n"
	"github.com/terraincognita07/ketchup/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	unlockAttemptsLimit  = 5
	unlockAttemptsWindow = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	logger       logrus.FieldLogger
	lifecycle    context.Context

	repositories  *db.Repositories
	gateService   *services.GateService
	setupService  *services.SetupService
	doseService   *services.DoseService
	cycleTracker  *services.CycleTracker
	reportService *services.ReportService
	importService *services.ImportService
	feed          *services.DoseFeed

	unlockLimiter *attemptLimiter
	now           func() time.Time
}

type HandlerOptions struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
	DoseCooldown time.Duration
	Logger       logrus.FieldLogger
}

func NewHandler(database *gorm.DB, i18nManager *i18n.Manager, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	secret := strings.TrimSpace(options.SecretKey)
	if secret == "" {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	handler := &Handler{
		secretKey:     []byte(secret),
		location:      location,
		cookieSecure:  options.CookieSecure,
		i18n:          i18nManager,
		logger:        logger,
		lifecycle:     context.Background(),
		unlockLimiter: newAttemptLimiter(),
		now:           time.Now,
	}
	return handler.withDependencies(database, options.DoseCooldown), nil
}

func (handler *Handler) withDependencies(database *gorm.DB, cooldown time.Duration) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.feed = services.NewDoseFeed()
	handler.gateService = services.NewGateService(handler.repositories.Users)
	handler.setupService = services.NewSetupService(handler.repositories.Users)
	handler.doseService = services.NewDoseService(handler.repositories.DoseEvents, handler.feed, handler.logger, cooldown)
	handler.cycleTracker = services.NewCycleTracker(handler.repositories.DoseEvents, handler.repositories.Users)
	handler.reportService = services.NewReportService(handler.doseService, handler.repositories.Users)
	handler.importService = services.NewImportService(handler.repositories.DoseEvents, handler.feed, handler.logger).WithWriteLock(handler.doseService)
	return handler
}

// WithLifecycle ties open live streams to ctx. Cancelling it ends every stream so a
// graceful shutdown is not held open by idle subscribers.
func (handler *Handler) WithLifecycle(ctx context.Context) *Handler {
	if ctx != nil {
		handler.lifecycle = ctx
	}
	return handler
}

func (handler *Handler) Feed() *services.DoseFeed {
	return handler.feed
}
