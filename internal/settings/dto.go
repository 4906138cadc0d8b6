package settings

import (
	"github.com/angelvillar/pawmart-backend/pkg/db/models"
)

// ContactInfoView is the public storefront contact payload.
type ContactInfoView struct {
	GoogleMapsURL *string `json:"google_maps_url,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Email         *string `json:"email,omitempty"`
}

// ContactInfoInput carries a partial contact-info edit. Nil fields are left untouched.
type ContactInfoInput struct {
	GoogleMapsURL *string
	PhoneNumber   *string
	Email         *string
}

// AdminSettingsView is the back-office toggle payload.
type AdminSettingsView struct {
	HideAdminSignup bool `json:"hide_admin_signup"`
}

// AdminSettingsInput carries a partial settings edit.
type AdminSettingsInput struct {
	HideAdminSignup *bool
}

func toContactInfoView(info *models.ContactInfo) ContactInfoView {
	return ContactInfoView{
		GoogleMapsURL: info.GoogleMapsURL,
		PhoneNumber:   info.PhoneNumber,
		Email:         info.Email,
	}
}

func toAdminSettingsView(settings *models.AdminSettings) AdminSettingsView {
	return AdminSettingsView{HideAdminSignup: settings.HideAdminSignup}
}
