package models

import "time"

// User is the single patient the dashboard tracks.
type User struct {
	ID             uint       `gorm:"primaryKey"`
	DisplayName    string     `gorm:"not null"`
	PasswordHash   string     `gorm:"not null"`
	CycleStartDate *time.Time `gorm:"type:date"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time
}
