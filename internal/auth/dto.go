package auth

import (
	"github.com/google/uuid"

	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
)

// RegisterInput contains the payload for a self-service signup.
type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber *string
	CountryCode *string
	Role        enums.UserRole
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput pairs the expired access token with its refresh token.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// CreateAdminInput is the payload an admin uses to provision another admin.
type CreateAdminInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber *string
	CountryCode *string
}

// UserSummary is the account shape returned alongside tokens.
type UserSummary struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Role     enums.UserRole `json:"role"`
}

// AuthResult is returned after a successful register or login.
type AuthResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

// RefreshResult carries the rotated token pair.
type RefreshResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toUserSummary(user *models.User, profile *models.Profile) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Email:    user.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}
}
