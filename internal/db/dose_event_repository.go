package db

import (
	"github.com/terraincognita07/ketchup/internal/models"
	"gorm.io/gorm"
)

const doseEventOrder = "COALESCE(timestamp, '1970-01-01 00:00:00') DESC, id ASC"

// DoseEventRepository is append-only: there is no update or delete.
type DoseEventRepository struct {
	database *gorm.DB
}

func NewDoseEventRepository(database *gorm.DB) *DoseEventRepository {
	return &DoseEventRepository{database: database}
}

func (repo *DoseEventRepository) Append(event *models.DoseEvent) error {
	return repo.database.Create(event).Error
}

func (repo *DoseEventRepository) ListByUser(userID uint) ([]models.DoseEvent, error) {
	events := make([]models.DoseEvent, 0)
	if err := repo.database.Where("user_id = ?", userID).Order(doseEventOrder).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *DoseEventRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.DoseEvent{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
