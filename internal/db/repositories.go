package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	DoseEvents *DoseEventRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		DoseEvents: NewDoseEventRepository(database),
	}
}
