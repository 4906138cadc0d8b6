package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/internal/users"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes account-level profile operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	UpdateEmail(ctx context.Context, input UpdateEmailInput) (*ProfileView, error)
}

type service struct {
	repo  Repository
	users users.Repository
	tx    txRunner
}

// NewService builds a profiles service with the required dependencies.
func NewService(repo Repository, usersRepo users.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, users: usersRepo, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	view := toProfileView(profile)
	return &view, nil
}

// UpdateEmail changes the login email and mirrors it onto the profile row.
// Both writes happen in one transaction so the two copies cannot drift.
func (s *service) UpdateEmail(ctx context.Context, input UpdateEmailInput) (*ProfileView, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)
		profilesRepo := s.repo.WithTx(tx)

		if existing, err := usersRepo.FindByEmail(ctx, email); err == nil && existing.ID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email availability")
		}

		if err := usersRepo.UpdateEmail(ctx, input.UserID, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user email")
		}
		if err := profilesRepo.UpdateEmail(ctx, input.UserID, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile email")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.UserID)
}
