package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelvillar/pawmart-backend/api/middleware"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

// userIDFromRequest extracts the authenticated user ID seeded by the auth
// middleware.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
