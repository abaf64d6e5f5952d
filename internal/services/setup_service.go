package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/ketchup/internal/models"
	"github.com/terraincognita07/ketchup/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const MinGatePasswordLength = 6

var (
	ErrWeakGatePassword       = errors.New("gate password too short")
	ErrPatientSetupFailed     = errors.New("patient setup failed")
	ErrGatePasswordMissing    = errors.New("gate password not configured")
	ErrCycleStartUpdateFailed = errors.New("update cycle start failed")
)

type PatientSetup struct {
	Name           string
	Password       string
	CycleStartDate *time.Time
}

type SetupUserRepository interface {
	FindPatient() (models.User, bool, error)
	Create(user *models.User) error
	UpdatePasswordHash(userID uint, passwordHash string) error
	UpdateByID(userID uint, updates map[string]any) error
}

type SetupService struct {
	users    SetupUserRepository
	defaults PatientSetup
	now      func() time.Time
}

func NewSetupService(users SetupUserRepository) *SetupService {
	return &SetupService{users: users, now: time.Now}
}

// WithPatientDefaults sets the name and cycle start used when a password command has to
// create the patient.
func (service *SetupService) WithPatientDefaults(setup PatientSetup) *SetupService {
	service.defaults = PatientSetup{Name: setup.Name, CycleStartDate: setup.CycleStartDate}
	return service
}

// EnsurePatient creates the single patient on first start. An existing patient keeps its
// stored hash; only non-empty configured values are refreshed.
func (service *SetupService) EnsurePatient(setup PatientSetup) (models.User, bool, error) {
	patient, found, err := service.users.FindPatient()
	if err != nil {
		return models.User{}, false, ErrPatientSetupFailed
	}

	name := strings.TrimSpace(setup.Name)
	if found {
		updates := map[string]any{}
		if name != "" && name != patient.DisplayName {
			updates["display_name"] = name
			patient.DisplayName = name
		}
		if setup.CycleStartDate != nil {
			start := normalizeCycleStart(*setup.CycleStartDate)
			if patient.CycleStartDate == nil || !patient.CycleStartDate.Equal(start) {
				updates["cycle_start_date"] = start
				patient.CycleStartDate = &start
			}
		}
		if len(updates) > 0 {
			if err := service.users.UpdateByID(patient.ID, updates); err != nil {
				return models.User{}, false, ErrPatientSetupFailed
			}
		}
		return patient, false, nil
	}

	if setup.Password == "" {
		return models.User{}, false, ErrGatePasswordMissing
	}
	if err := ValidateGatePassword(setup.Password); err != nil {
		return models.User{}, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(setup.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, false, ErrPatientSetupFailed
	}

	patient = models.User{
		DisplayName:  name,
		PasswordHash: string(hash),
		CreatedAt:    service.now().UTC(),
	}
	if setup.CycleStartDate != nil {
		start := normalizeCycleStart(*setup.CycleStartDate)
		patient.CycleStartDate = &start
	}
	if err := service.users.Create(&patient); err != nil {
		return models.User{}, false, ErrPatientSetupFailed
	}
	return patient, true, nil
}

// ResetGatePassword stores a freshly generated passphrase and returns it in clear text once.
// A missing patient is created with it.
func (service *SetupService) ResetGatePassword() (string, error) {
	passphrase, err := security.RandomPassphrase(3, 4)
	if err != nil {
		return "", err
	}
	if err := service.SetGatePassword(passphrase); err != nil {
		return "", err
	}
	return passphrase, nil
}

// SetGatePassword replaces the stored hash, creating the patient from the defaults when the
// database has none yet.
func (service *SetupService) SetGatePassword(password string) error {
	if err := ValidateGatePassword(password); err != nil {
		return err
	}
	patient, found, err := service.users.FindPatient()
	if err != nil {
		return ErrPatientSetupFailed
	}
	if !found {
		setup := service.defaults
		setup.Password = password
		_, _, err := service.EnsurePatient(setup)
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPatientSetupFailed
	}
	if err := service.users.UpdatePasswordHash(patient.ID, string(hash)); err != nil {
		return ErrPatientSetupFailed
	}
	return nil
}

func (service *SetupService) SetCycleStartDate(day time.Time) (time.Time, error) {
	patient, found, err := service.users.FindPatient()
	if err != nil {
		return time.Time{}, ErrCycleStartUpdateFailed
	}
	if !found {
		return time.Time{}, ErrNoPatient
	}
	start := normalizeCycleStart(day)
	if err := service.users.UpdateByID(patient.ID, map[string]any{"cycle_start_date": start}); err != nil {
		return time.Time{}, ErrCycleStartUpdateFailed
	}
	return start, nil
}

func ValidateGatePassword(password string) error {
	if len([]rune(password)) < MinGatePasswordLength {
		return ErrWeakGatePassword
	}
	return nil
}

func ParseCycleStartDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

func normalizeCycleStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
