package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/ketchup/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrGateLocked = errors.New("gate locked")
	ErrNoPatient  = errors.New("no patient configured")
)

// SessionContext describes the caller of a request. It is built per request.
type SessionContext struct {
	IsAuthenticated bool
	User            *models.User
}

func GateOpen(session SessionContext) bool {
	return session.IsAuthenticated && session.User != nil
}

type GateUserRepository interface {
	FindPatient() (models.User, bool, error)
	FindByID(userID uint) (models.User, error)
}

type GateService struct {
	users GateUserRepository
}

func NewGateService(users GateUserRepository) *GateService {
	return &GateService{users: users}
}

func (service *GateService) Unlock(password string) (SessionContext, error) {
	patient, found, err := service.users.FindPatient()
	if err != nil {
		return SessionContext{}, err
	}
	if !found {
		return SessionContext{}, ErrNoPatient
	}
	hash := strings.TrimSpace(patient.PasswordHash)
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return SessionContext{}, ErrGateLocked
	}
	return SessionContext{IsAuthenticated: true, User: &patient}, nil
}

// Resume rebuilds a session for a user id carried by a verified token.
func (service *GateService) Resume(userID uint) (SessionContext, error) {
	if userID == 0 {
		return SessionContext{}, ErrGateLocked
	}
	user, err := service.users.FindByID(userID)
	if err != nil {
		return SessionContext{}, ErrGateLocked
	}
	return SessionContext{IsAuthenticated: true, User: &user}, nil
}

func (service *GateService) Patient() (models.User, bool, error) {
	return service.users.FindPatient()
}
