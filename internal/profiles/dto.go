package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
)

// ProfileView is the account payload returned to the owner.
type ProfileView struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	FullName    string         `json:"full_name"`
	Email       string         `json:"email"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	CountryCode *string        `json:"country_code,omitempty"`
	Role        enums.UserRole `json:"role"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UpdateEmailInput carries the requested email change for the acting user.
type UpdateEmailInput struct {
	UserID uuid.UUID
	Email  string
}

func toProfileView(p *models.Profile) ProfileView {
	return ProfileView{
		ID:          p.ID,
		UserID:      p.UserID,
		FullName:    p.FullName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		CountryCode: p.CountryCode,
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
	}
}
