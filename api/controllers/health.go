package controllers

import (
	"context"
	"net/http"

	"github.com/sortezap/sortezap-backend/api/responses"
	"github.com/sortezap/sortezap-backend/pkg/config"
	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/redis"
)

// AccountChecker verifies the gateway credentials resolve to an account.
type AccountChecker interface {
	AccountInfo(ctx context.Context) (*lirapay.AccountInfo, error)
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SorteZap-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the optional dependencies. Missing
// gateway credentials report "unconfigured" instead of failing the check.
func HealthReady(cfg *config.Config, logg *logger.Logger, pinger redis.Pinger, accounts AccountChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-SorteZap-Env", cfg.App.Env)

		checks := map[string]string{}

		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "unconfigured"
		}

		if accounts != nil && cfg.LiraPay.HasSecret() {
			if _, err := accounts.AccountInfo(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unreachable"))
				return
			}
			checks["lirapay"] = "ok"
		} else {
			checks["lirapay"] = "unconfigured"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
