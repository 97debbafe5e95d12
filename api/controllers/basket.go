package controllers

import (
	"net/http"

	"github.com/khalidshboul/smart-basket-admin/api/responses"
	"github.com/khalidshboul/smart-basket-admin/api/validators"
	"github.com/khalidshboul/smart-basket-admin/internal/basket"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
)

// BasketCompare prices the submitted basket against every active store.
func BasketCompare(svc basket.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, apperrors.New(apperrors.CodeInternal, "basket service unavailable"))
			return
		}

		var input basket.CompareInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comparison, err := svc.Compare(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, comparison)
	}
}
