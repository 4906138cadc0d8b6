package controllers

import (
	"net/http"

	"github.com/angelvillar/pawmart-backend/api/responses"
	mediasvc "github.com/angelvillar/pawmart-backend/internal/media"
	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
)

// UploadProductImage accepts a multipart "file" field and stores it in the
// public image bucket.
func UploadProductImage(svc mediasvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		out, err := svc.UploadImage(r.Context(), mediasvc.UploadInput{
			SizeBytes: header.Size,
			Body:      file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
