package cron

import (
	"context"
	"fmt"

	syncengine "github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/sync"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
)

// SyncRunner is satisfied by the reconciliation engine.
type SyncRunner interface {
	RunFullSync(ctx context.Context) (syncengine.Result, error)
}

// StockSyncJob runs the full provider reconciliation on the worker cadence.
type StockSyncJob struct {
	engine SyncRunner
}

// NewStockSyncJob builds the scheduled full-sync job.
func NewStockSyncJob(engine SyncRunner) *StockSyncJob {
	return &StockSyncJob{engine: engine}
}

// Name identifies the job in logs and metrics.
func (j *StockSyncJob) Name() string {
	return "stock_sync"
}

// Run executes one reconciliation pass. A partial run is surfaced as a job
// failure so the failure counter catches feeds that keep truncating; the run
// details live in the sync log either way.
func (j *StockSyncJob) Run(ctx context.Context) error {
	result, err := j.engine.RunFullSync(ctx)
	if err != nil {
		return err
	}
	if result.Status != models.SyncStatusSuccess {
		return fmt.Errorf("sync finished %s with %d errors", result.Status, len(result.Errors))
	}
	return nil
}
