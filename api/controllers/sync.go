package controllers

import (
	"context"
	"net/http"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	syncengine "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/sync"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
)

// SyncRunner triggers a full reconciliation pass.
type SyncRunner interface {
	RunFullSync(ctx context.Context) (syncengine.Result, error)
}

// TriggerSync runs a full sync synchronously and returns its result. Used by
// both the authenticated staff trigger and the scheduler endpoint. A clean run
// is 200; a run with per-vehicle errors is 207 so callers notice without
// treating it as a failure.
func TriggerSync(engine SyncRunner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := engine.RunFullSync(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync run failed"))
			return
		}

		status := http.StatusOK
		if result.Status != models.SyncStatusSuccess {
			status = http.StatusMultiStatus
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
