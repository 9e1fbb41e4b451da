package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClosedDate is a calendar date on which no bookings are accepted,
// regardless of the weekday schedule. Day granularity only.
type ClosedDate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *ClosedDate) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
