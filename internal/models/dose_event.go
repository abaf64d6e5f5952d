package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DoseStatusConfirmed = "confirmed"
)

const (
	DoseSourceApp   = "app"
	DoseSourceSheet = "sheet"
)

// DoseEvent is one logged medication dose. Rows are append-only.
type DoseEvent struct {
	ID        uint       `gorm:"primaryKey"`
	PublicID  string     `gorm:"not null;uniqueIndex:uidx_dose_events_public_id"`
	UserID    uint       `gorm:"not null;index"`
	Timestamp *time.Time `gorm:"column:timestamp"`
	CycleDay  int        `gorm:"not null"`
	Status    string     `gorm:"not null"`
	PillType  string     `gorm:"not null"`
	Mood      string     `gorm:"not null"`
	Skin      string     `gorm:"not null"`
	Spotting  bool       `gorm:"not null"`
	Source    string     `gorm:"not null"`
	CreatedAt time.Time
}

func (event *DoseEvent) BeforeCreate(_ *gorm.DB) error {
	if event.PublicID == "" {
		event.PublicID = uuid.NewString()
	}
	return nil
}

// SortTime returns the ordering key. Missing timestamps sort as the Unix epoch.
func (event DoseEvent) SortTime() time.Time {
	if event.Timestamp == nil {
		return time.Unix(0, 0).UTC()
	}
	return event.Timestamp.UTC()
}
