package controllers

import (
	"net/http"

	"github.com/angelvillar/pawmart-backend/api/responses"
	"github.com/angelvillar/pawmart-backend/api/validators"
	authsvc "github.com/angelvillar/pawmart-backend/internal/auth"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
)

type createAdminRequest struct {
	FullName    string  `json:"full_name" validate:"required,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
}

// AdminCreateAdmin provisions another admin account. Only reachable behind
// the admin role guard.
func AdminCreateAdmin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload createAdminRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.CreateAdmin(r.Context(), authsvc.CreateAdminInput{
			FullName:    payload.FullName,
			Email:       payload.Email,
			Password:    payload.Password,
			PhoneNumber: payload.PhoneNumber,
			CountryCode: payload.CountryCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}
