package controllers

import (
	"context"
	"net/http"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

// Pinger is the liveness surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FNT-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the store and cache are reachable before reporting
// ready; deploys gate on it.
func HealthReady(cfg *config.Config, db, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FNT-Env", cfg.App.Env)

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
