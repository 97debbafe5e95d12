package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/khalidshboul/smart-basket-admin/api/responses"
	"github.com/khalidshboul/smart-basket-admin/pkg/config"
	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
	"github.com/khalidshboul/smart-basket-admin/pkg/redis"
)

const readinessTimeout = 3 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SmartBasket-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports the aggregate.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SmartBasket-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var err error
		if dbP != nil {
			err = multierr.Append(err, dbP.Ping(ctx))
		}
		if redisP != nil {
			err = multierr.Append(err, redisP.Ping(ctx))
		}

		if err != nil {
			responses.WriteError(ctx, logg, w, apperrors.Wrap(apperrors.CodeDependency, err, "dependency not ready"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
