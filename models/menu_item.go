package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Price      float64        `gorm:"not null" json:"price"`
	CategoryID uuid.UUID      `gorm:"type:uuid;not null" json:"category_id"`
	Category   Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageKey   string         `json:"image_key"` // object path in the storage bucket
	ImageURL   string         `json:"image_url"`
	Active     bool           `gorm:"default:true" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
