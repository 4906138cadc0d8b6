package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSettings is a singleton row of back-office toggles.
type AdminSettings struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HideAdminSignup bool      `gorm:"column:hide_admin_signup;not null;default:false"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminSettings) TableName() string { return "admin_settings" }
