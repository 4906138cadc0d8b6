package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelvillar/pawmart-backend/pkg/enums"
)

// Profile holds the user-facing account data. Email is mirrored from the
// User row and kept in sync by the profiles service.
type Profile struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FullName    string         `gorm:"column:full_name;not null"`
	Email       string         `gorm:"column:email;not null"`
	PhoneNumber *string        `gorm:"column:phone_number"`
	CountryCode *string        `gorm:"column:country_code"`
	Role        enums.UserRole `gorm:"column:role;not null;default:customer"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
