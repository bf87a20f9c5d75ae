package webhooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/internal/transform"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/metrics"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
	"gorm.io/gorm"
)

// Provider webhook event types.
const (
	EventVehicleCreated = "vehicle.created"
	EventVehicleUpdated = "vehicle.updated"
	EventVehicleDeleted = "vehicle.deleted"
)

// Event is one inbound provider notification.
type Event struct {
	EventType    string `json:"eventType"`
	VehicleID    string `json:"vehicleId"`
	AdvertiserID string `json:"advertiserId"`
	Timestamp    string `json:"timestamp"`
}

// Validate rejects events the ingestor cannot act on.
func (e Event) Validate() error {
	switch e.EventType {
	case EventVehicleCreated, EventVehicleUpdated, EventVehicleDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.EventType)
	}
	if strings.TrimSpace(e.VehicleID) == "" {
		return errors.New("vehicleId is required")
	}
	return nil
}

// IdempotencyKey identifies a redelivery of the same notification.
func (e Event) IdempotencyKey() string {
	return fmt.Sprintf("%s:%s:%s", e.EventType, e.VehicleID, e.Timestamp)
}

// VehicleFetcher pulls one full stock record from the provider.
type VehicleFetcher interface {
	FetchVehicle(ctx context.Context, stockID string) (*provider.StockItem, error)
}

// VehicleStore is the persistence surface for single-vehicle ingestion.
type VehicleStore interface {
	FindByProviderID(ctx context.Context, providerID string) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
}

// RunRecorder appends one sync log row per handled event.
type RunRecorder interface {
	Create(ctx context.Context, entry *models.SyncLog) error
}

// Service applies provider webhook events to the store. Created and updated
// events converge on the same upsert so a missed or re-delivered notification
// self-heals; deleted events soft-delete only.
type Service struct {
	fetcher VehicleFetcher
	store   VehicleStore
	runs    RunRecorder
	logg    *logger.Logger
	metrics *metrics.SyncMetrics
	now     func() time.Time
}

// NewService wires a webhook ingestion service.
func NewService(fetcher VehicleFetcher, store VehicleStore, runs RunRecorder, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) *Service {
	return &Service{
		fetcher: fetcher,
		store:   store,
		runs:    runs,
		logg:    logg,
		metrics: syncMetrics,
		now:     time.Now,
	}
}

// Handle applies one event and writes exactly one sync log row with the
// resulting status. The returned status is one of success, skipped, not_found
// or failed; err is non-nil only for the failed status.
func (s *Service) Handle(ctx context.Context, event Event) (string, error) {
	started := s.now()

	status, added, updated, removed, err := s.apply(ctx, event)

	duration := s.now().Sub(started)
	entry := &models.SyncLog{
		RunType:           models.SyncRunTypeWebhook,
		Status:            status,
		VehiclesAdded:     added,
		VehiclesUpdated:   updated,
		VehiclesRemoved:   removed,
		DurationMS:        duration.Milliseconds(),
		ProviderVehicleID: &event.VehicleID,
	}
	if err != nil {
		summary := err.Error()
		entry.ErrorSummary = &summary
	}
	if logErr := s.runs.Create(ctx, entry); logErr != nil && s.logg != nil {
		s.logg.Error(ctx, "recording webhook run", logErr)
	}

	s.metrics.ObserveRun(models.SyncRunTypeWebhook, status, duration)
	s.metrics.AddVehicles("added", added)
	s.metrics.AddVehicles("updated", updated)
	s.metrics.AddVehicles("marked_unavailable", removed)

	if s.logg != nil {
		logCtx := s.logg.WithRunType(ctx, models.SyncRunTypeWebhook)
		logCtx = s.logg.WithVehicleID(logCtx, event.VehicleID)
		logCtx = s.logg.WithField(logCtx, "status", status)
		if err != nil {
			s.logg.Error(logCtx, "webhook event failed", err)
		} else {
			s.logg.Info(logCtx, "webhook event handled")
		}
	}

	return status, err
}

func (s *Service) apply(ctx context.Context, event Event) (status string, added, updated, removed int, err error) {
	switch event.EventType {
	case EventVehicleCreated, EventVehicleUpdated:
		return s.upsert(ctx, event)
	case EventVehicleDeleted:
		return s.softDelete(ctx, event)
	default:
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("unknown event type %q", event.EventType)
	}
}

// upsert converges created and updated: whichever event arrives, the store
// ends up holding the provider's current record, unless staff froze it.
func (s *Service) upsert(ctx context.Context, event Event) (string, int, int, int, error) {
	existing, err := s.store.FindByProviderID(ctx, event.VehicleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("looking up vehicle: %w", err)
	}

	if existing != nil && existing.OverrideActive {
		return models.SyncStatusSkipped, 0, 0, 0, nil
	}

	item, err := s.fetcher.FetchVehicle(ctx, event.VehicleID)
	if err != nil {
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("fetching vehicle detail: %w", err)
	}

	now := s.now()
	mapped := transform.Vehicle(*item, event.AdvertiserID, 0)
	if validation := transform.Validate(mapped, now); !validation.Valid {
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("invalid vehicle: %s", strings.Join(validation.Errors, "; "))
	}
	mapped.LastSyncedAt = &now

	if existing == nil {
		if err := s.store.Create(ctx, &mapped); err != nil {
			return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("inserting vehicle: %w", err)
		}
		return models.SyncStatusSuccess, 1, 0, 0, nil
	}

	mapped.ID = existing.ID
	mapped.CreatedAt = existing.CreatedAt
	if err := s.store.Update(ctx, &mapped); err != nil {
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("updating vehicle: %w", err)
	}
	return models.SyncStatusSuccess, 0, 1, 0, nil
}

func (s *Service) softDelete(ctx context.Context, event Event) (string, int, int, int, error) {
	existing, err := s.store.FindByProviderID(ctx, event.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SyncStatusNotFound, 0, 0, 0, nil
		}
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("looking up vehicle: %w", err)
	}

	if existing.OverrideActive {
		return models.SyncStatusSkipped, 0, 0, 0, nil
	}

	existing.IsAvailable = false
	if err := s.store.Update(ctx, existing); err != nil {
		return models.SyncStatusFailed, 0, 0, 0, fmt.Errorf("marking vehicle unavailable: %w", err)
	}
	return models.SyncStatusSuccess, 0, 0, 1, nil
}
