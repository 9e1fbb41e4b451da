package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpeningHours holds the bookable window for one weekday. Exactly one row
// per weekday is expected; a missing row is a configuration defect.
type OpeningHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DayOfWeek int       `gorm:"uniqueIndex;not null" json:"day_of_week"` // 0=Sunday, 6=Saturday
	OpenTime  string    `gorm:"not null;default:'09:00'" json:"open_time"`
	CloseTime string    `gorm:"not null;default:'21:00'" json:"close_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *OpeningHours) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
