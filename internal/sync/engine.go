package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/transform"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/metrics"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
	"github.com/google/uuid"
)

// StockLister pulls the advertiser's full feed from the provider.
type StockLister interface {
	FetchAllStock(ctx context.Context, advertiserID string) ([]provider.StockItem, error)
}

// VehicleStore is the persistence surface the reconciliation pass writes to.
type VehicleStore interface {
	ListSynced(ctx context.Context) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	MarkUnavailable(ctx context.Context, ids []uuid.UUID, now time.Time) (int64, error)
}

// RunRecorder appends one sync log row per run.
type RunRecorder interface {
	Create(ctx context.Context, entry *models.SyncLog) error
}

// Engine reconciles the provider's live feed against the local store: inserts
// new stock, refreshes known stock, and soft-deletes stock that disappeared.
// Rows with OverrideActive set are never touched.
type Engine struct {
	stock        StockLister
	store        VehicleStore
	runs         RunRecorder
	logg         *logger.Logger
	metrics      *metrics.SyncMetrics
	advertiserID string
	now          func() time.Time
}

// NewEngine wires a reconciliation engine.
func NewEngine(stock StockLister, store VehicleStore, runs RunRecorder, advertiserID string, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) *Engine {
	return &Engine{
		stock:        stock,
		store:        store,
		runs:         runs,
		logg:         logg,
		metrics:      syncMetrics,
		advertiserID: advertiserID,
		now:          time.Now,
	}
}

// RunFullSync executes one reconciliation pass. Per-vehicle failures are
// collected into the result and never abort the run; run-level failures (no
// feed at all, store listing unavailable) are recorded as a failed run row and
// returned to the caller. A run row is written on every path.
func (e *Engine) RunFullSync(ctx context.Context) (Result, error) {
	started := e.now()
	var result Result

	items, fetchErr := e.stock.FetchAllStock(ctx, e.advertiserID)
	if fetchErr != nil && len(items) == 0 {
		// Nothing retrieved at all: abort, but leave a trace of the attempt.
		result.Status = models.SyncStatusFailed
		result.Duration = e.now().Sub(started)
		result.Errors = append(result.Errors, VehicleError{ProviderID: "-", Reason: fetchErr.Error()})
		e.record(ctx, result)
		return result, fetchErr
	}

	partialFeed := fetchErr != nil
	if partialFeed {
		var pageErr *provider.PageError
		reason := fetchErr.Error()
		if errors.As(fetchErr, &pageErr) {
			reason = fmt.Sprintf("feed truncated at page %d: %v", pageErr.Page, pageErr.Err)
		}
		result.Errors = append(result.Errors, VehicleError{ProviderID: "-", Reason: reason})
	}

	local, err := e.store.ListSynced(ctx)
	if err != nil {
		result.Status = models.SyncStatusFailed
		result.Duration = e.now().Sub(started)
		result.Errors = append(result.Errors, VehicleError{ProviderID: "-", Reason: "listing synced vehicles: " + err.Error()})
		e.record(ctx, result)
		return result, err
	}

	byProviderID := make(map[string]models.Vehicle, len(local))
	for _, vehicle := range local {
		if vehicle.ProviderID != nil {
			byProviderID[*vehicle.ProviderID] = vehicle
		}
	}

	now := e.now()
	seen := make(map[string]bool, len(items))

	for index, item := range items {
		mapped := transform.Vehicle(item, e.advertiserID, index)
		providerID := *mapped.ProviderID

		if seen[providerID] {
			result.Errors = append(result.Errors, VehicleError{ProviderID: providerID, Reason: "duplicate provider id in feed"})
			continue
		}
		seen[providerID] = true

		if validation := transform.Validate(mapped, now); !validation.Valid {
			for _, reason := range validation.Errors {
				result.Errors = append(result.Errors, VehicleError{ProviderID: providerID, Reason: reason})
			}
			continue
		}

		existing, known := byProviderID[providerID]
		switch {
		case known && existing.OverrideActive:
			// Frozen by staff; neither an add nor an update.
		case known:
			mapped.ID = existing.ID
			mapped.CreatedAt = existing.CreatedAt
			mapped.LastSyncedAt = &now
			if err := e.store.Update(ctx, &mapped); err != nil {
				result.Errors = append(result.Errors, VehicleError{ProviderID: providerID, Reason: "update: " + err.Error()})
				continue
			}
			result.Updated++
		default:
			mapped.LastSyncedAt = &now
			if err := e.store.Create(ctx, &mapped); err != nil {
				result.Errors = append(result.Errors, VehicleError{ProviderID: providerID, Reason: "insert: " + err.Error()})
				continue
			}
			result.Added++
		}
	}

	// A truncated feed must not soft-delete stock that may live on the pages
	// we never saw.
	if !partialFeed {
		var disappeared []uuid.UUID
		for _, vehicle := range local {
			if vehicle.ProviderID == nil || seen[*vehicle.ProviderID] || vehicle.OverrideActive {
				continue
			}
			disappeared = append(disappeared, vehicle.ID)
		}
		marked, err := e.store.MarkUnavailable(ctx, disappeared, now)
		if err != nil {
			result.Errors = append(result.Errors, VehicleError{ProviderID: "-", Reason: "marking unavailable: " + err.Error()})
		} else {
			result.MarkedUnavailable = int(marked)
		}
	}

	result.Duration = e.now().Sub(started)
	result.resolveStatus()
	e.record(ctx, result)
	return result, nil
}

// record writes the run row and metrics. A failure to log never fails the run
// itself; it is only logged.
func (e *Engine) record(ctx context.Context, result Result) {
	entry := &models.SyncLog{
		RunType:         models.SyncRunTypeFull,
		Status:          result.Status,
		VehiclesAdded:   result.Added,
		VehiclesUpdated: result.Updated,
		VehiclesRemoved: result.MarkedUnavailable,
		DurationMS:      result.Duration.Milliseconds(),
		ErrorSummary:    result.errorSummary(),
	}
	if err := e.runs.Create(ctx, entry); err != nil && e.logg != nil {
		e.logg.Error(ctx, "recording sync run", err)
	}

	e.metrics.ObserveRun(models.SyncRunTypeFull, result.Status, result.Duration)
	e.metrics.AddVehicles("added", result.Added)
	e.metrics.AddVehicles("updated", result.Updated)
	e.metrics.AddVehicles("marked_unavailable", result.MarkedUnavailable)

	if e.logg != nil {
		ctx = e.logg.WithRunType(ctx, models.SyncRunTypeFull)
		ctx = e.logg.WithFields(ctx, map[string]any{
			"status":             result.Status,
			"added":              result.Added,
			"updated":            result.Updated,
			"marked_unavailable": result.MarkedUnavailable,
			"errors":             len(result.Errors),
			"duration_ms":        result.Duration.Milliseconds(),
		})
		e.logg.Info(ctx, "full sync finished")
	}
}
