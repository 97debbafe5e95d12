package controllers

import (
	"errors"
	"net/http"

	"github.com/khalidshboul/smart-basket-admin/api/responses"
	"github.com/khalidshboul/smart-basket-admin/internal/bulkupload"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
)

const uploadFormField = "file"

// BulkUploadItems ingests an .xlsx workbook of items and store prices.
// The request body is capped at maxFileBytes before parsing starts.
func BulkUploadItems(svc bulkupload.Service, logg *logger.Logger, maxFileBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "bulk upload service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFileBytes)

		if err := r.ParseMultipartForm(maxFileBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "uploaded file is too large"))
				return
			}
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, apperrors.Wrap(apperrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
