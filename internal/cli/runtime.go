package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ketchup/internal/config"
	"github.com/terraincognita07/ketchup/internal/db"
	"github.com/terraincognita07/ketchup/internal/i18n"
	"github.com/terraincognita07/ketchup/internal/logging"
	"github.com/terraincognita07/ketchup/internal/models"
	"github.com/terraincognita07/ketchup/internal/services"
	"gorm.io/gorm"
)

// appRuntime is everything a command needs once configuration has been resolved.
type appRuntime struct {
	config   config.Config
	logger   *logrus.Logger
	database *gorm.DB
	i18n     *i18n.Manager
	patient  models.User

	setup   *services.SetupService
	doses   *services.DoseService
	tracker *services.CycleTracker
	reports *services.ReportService
	imports *services.ImportService
}

func (options *rootOptions) openRuntime(requireSecret bool) (*appRuntime, error) {
	rt, err := options.openStore(requireSecret)
	if err != nil {
		return nil, err
	}
	if err := rt.ensurePatient(); err != nil {
		rt.Close()
		if errors.Is(err, services.ErrGatePasswordMissing) {
			return nil, fmt.Errorf("patient setup: %w (set patient.password or run set-password)", err)
		}
		return nil, fmt.Errorf("patient setup: %w", err)
	}
	return rt, nil
}

// openSetupRuntime is openRuntime for the password commands: a fresh database without a
// usable configured password is left empty so the command can create the patient itself.
func (options *rootOptions) openSetupRuntime() (*appRuntime, error) {
	rt, err := options.openStore(false)
	if err != nil {
		return nil, err
	}
	err = rt.ensurePatient()
	if err != nil && !errors.Is(err, services.ErrGatePasswordMissing) && !errors.Is(err, services.ErrWeakGatePassword) {
		rt.Close()
		return nil, fmt.Errorf("patient setup: %w", err)
	}
	return rt, nil
}

func (options *rootOptions) openStore(requireSecret bool) (*appRuntime, error) {
	logger, err := logging.New(options.viper.GetString("log_level"), options.errOut())
	if err != nil {
		return nil, err
	}

	load := config.LoadOffline
	if requireSecret {
		load = config.Load
	}
	cfg, err := load(options.viper, logger)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	database, err := db.OpenSQLite(cfg.DBPath, logging.GormWriter{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	repos := db.NewRepositories(database)
	doses := services.NewDoseService(repos.DoseEvents, nil, logger, cfg.DoseCooldown)
	return &appRuntime{
		config:   cfg,
		logger:   logger,
		database: database,
		i18n:     i18nManager,
		setup:    services.NewSetupService(repos.Users).WithPatientDefaults(patientSetup(cfg)),
		doses:    doses,
		tracker:  services.NewCycleTracker(repos.DoseEvents, repos.Users),
		reports:  services.NewReportService(doses, repos.Users),
		imports:  services.NewImportService(repos.DoseEvents, nil, logger).WithWriteLock(doses),
	}, nil
}

func (rt *appRuntime) ensurePatient() error {
	patient, created, err := rt.setup.EnsurePatient(patientSetup(rt.config))
	if err != nil {
		return err
	}
	if created {
		rt.logger.WithField("patient", patient.DisplayName).Info("created patient")
	}
	rt.patient = patient
	return nil
}

func patientSetup(cfg config.Config) services.PatientSetup {
	return services.PatientSetup{
		Name:           cfg.Patient.Name,
		Password:       cfg.Patient.Password,
		CycleStartDate: cfg.Patient.CycleStart,
	}
}

func (rt *appRuntime) Close() {
	if err := db.Close(rt.database); err != nil {
		rt.logger.WithError(err).Warn("close database")
	}
}

func (rt *appRuntime) language() string {
	return rt.i18n.DefaultLanguage()
}
