package settings

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

// Service exposes the storefront contact card and back-office toggles.
type Service interface {
	ContactInfo(ctx context.Context) (*ContactInfoView, error)
	UpdateContactInfo(ctx context.Context, input ContactInfoInput) (*ContactInfoView, error)
	AdminSettings(ctx context.Context) (*AdminSettingsView, error)
	UpdateAdminSettings(ctx context.Context, input AdminSettingsInput) (*AdminSettingsView, error)
	AdminSignupHidden(ctx context.Context) (bool, error)
}

type service struct {
	repo Repository
}

// NewService builds a settings service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ContactInfo(ctx context.Context) (*ContactInfoView, error) {
	info, err := s.repo.GetContactInfo(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact info")
	}
	view := toContactInfoView(info)
	return &view, nil
}

func (s *service) UpdateContactInfo(ctx context.Context, input ContactInfoInput) (*ContactInfoView, error) {
	updates := map[string]any{}
	if input.GoogleMapsURL != nil {
		updates["google_maps_url"] = strings.TrimSpace(*input.GoogleMapsURL)
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		updates["email"] = email
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateContactInfo(ctx, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contact info")
	}
	return s.ContactInfo(ctx)
}

func (s *service) AdminSettings(ctx context.Context) (*AdminSettingsView, error) {
	settings, err := s.repo.GetAdminSettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin settings")
	}
	view := toAdminSettingsView(settings)
	return &view, nil
}

func (s *service) UpdateAdminSettings(ctx context.Context, input AdminSettingsInput) (*AdminSettingsView, error) {
	updates := map[string]any{}
	if input.HideAdminSignup != nil {
		updates["hide_admin_signup"] = *input.HideAdminSignup
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateAdminSettings(ctx, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update admin settings")
	}
	return s.AdminSettings(ctx)
}

// AdminSignupHidden reports whether self-service admin registration is
// currently disabled. Used by the auth service during registration.
func (s *service) AdminSignupHidden(ctx context.Context) (bool, error) {
	settings, err := s.repo.GetAdminSettings(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin settings")
	}
	return settings.HideAdminSignup, nil
}
