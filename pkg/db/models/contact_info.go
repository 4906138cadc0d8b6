package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo is a singleton row holding the storefront's public contact
// details. The migration seeds the single row; updates go through the
// settings service.
type ContactInfo struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GoogleMapsURL *string   `gorm:"column:google_maps_url"`
	PhoneNumber   *string   `gorm:"column:phone_number"`
	Email         *string   `gorm:"column:email"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContactInfo) TableName() string { return "contact_info" }
