package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/samcharmz/charmz-backend/api/responses"
	"github.com/samcharmz/charmz-backend/pkg/config"
	"github.com/samcharmz/charmz-backend/pkg/db"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/logger"
	"github.com/samcharmz/charmz-backend/pkg/redis"
)

const envHeader = "X-Charmz-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured datasource and aggregates failures. A
// nil redis pinger (sqlite-only deploys) is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		failing := []string{}
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, "db")
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				combined = multierr.Append(combined, err)
				failing = append(failing, "redis")
			}
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "datasource unreachable").
				WithDetails(map[string]any{"failing": failing})
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
