package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelvillar/pawmart-backend/internal/profiles"
	"github.com/angelvillar/pawmart-backend/internal/users"
	pkgauth "github.com/angelvillar/pawmart-backend/pkg/auth"
	"github.com/angelvillar/pawmart-backend/pkg/auth/session"
	"github.com/angelvillar/pawmart-backend/pkg/config"
	"github.com/angelvillar/pawmart-backend/pkg/db/models"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
	"github.com/angelvillar/pawmart-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	minPasswordLength         = 8
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type signupPolicy interface {
	AdminSignupHidden(ctx context.Context) (bool, error)
}

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error)
	Logout(ctx context.Context, accessID string) error
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserSummary, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UsersRepo    users.Repository
	ProfilesRepo profiles.Repository
	Session      sessionManager
	Policy       signupPolicy
	Tx           txRunner
	JWTConfig    config.JWTConfig
	PasswordCfg  config.PasswordConfig
}

type service struct {
	users       users.Repository
	profiles    profiles.Repository
	session     sessionManager
	policy      signupPolicy
	tx          txRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UsersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.ProfilesRepo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Policy == nil {
		return nil, fmt.Errorf("signup policy required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		users:       params.UsersRepo,
		profiles:    params.ProfilesRepo,
		session:     params.Session,
		policy:      params.Policy,
		tx:          params.Tx,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	role := input.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if role == enums.UserRoleAdmin {
		hidden, err := s.policy.AdminSignupHidden(ctx)
		if err != nil {
			return nil, err
		}
		if hidden {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin registration is disabled")
		}
	}

	user, profile, err := s.createAccount(ctx, accountInput{
		FullName:    input.FullName,
		Email:       input.Email,
		Password:    input.Password,
		PhoneNumber: input.PhoneNumber,
		CountryCode: input.CountryCode,
		Role:        role,
	})
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user, profile, time.Now().UTC())
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	user.LastLoginAt = &now

	return s.issueTokens(ctx, user, profile, now)
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	if strings.TrimSpace(input.AccessToken) == "" || strings.TrimSpace(input.RefreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh request")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh request")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh request")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh request")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResult{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session identity missing")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserSummary, error) {
	user, profile, err := s.createAccount(ctx, accountInput{
		FullName:    input.FullName,
		Email:       input.Email,
		Password:    input.Password,
		PhoneNumber: input.PhoneNumber,
		CountryCode: input.CountryCode,
		Role:        enums.UserRoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	summary := toUserSummary(user, profile)
	return &summary, nil
}

type accountInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber *string
	CountryCode *string
	Role        enums.UserRole
}

func (s *service) createAccount(ctx context.Context, input accountInput) (*models.User, *models.Profile, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	var profile *models.Profile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)
		profilesRepo := s.profiles.WithTx(tx)

		if _, err := usersRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		created, err := usersRepo.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: passwordHash,
			IsActive:     true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		user = created

		createdProfile, err := profilesRepo.Create(ctx, &models.Profile{
			UserID:      created.ID,
			FullName:    fullName,
			Email:       email,
			PhoneNumber: input.PhoneNumber,
			CountryCode: input.CountryCode,
			Role:        input.Role,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}
		profile = createdProfile
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User, profile *models.Profile, now time.Time) (*AuthResult, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   profile.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserSummary(user, profile),
	}, nil
}
